package ui_test

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/tartampluch/go-congrats/internal/ui"
)

func TestNumericalEntry_TypedRune(t *testing.T) {
	entry := ui.NewNumericalEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Digit_Five", '5', true},
		{"Letter_a", 'a', false},
		{"Letter_Z", 'Z', false},
		{"Cyrillic", 'д', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")
			test.Type(entry, string(tt.input))

			if tt.accepted {
				assert.Equal(t, string(tt.input), entry.Text)
			} else {
				assert.Empty(t, entry.Text)
			}
		})
	}
}

func TestNumericalEntry_PasteKeepsDigits(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	entry := ui.NewNumericalEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	clipboard := a.Clipboard()
	clipboard.SetContent("18 0a8-0")
	entry.TypedShortcut(&fyne.ShortcutPaste{Clipboard: clipboard})

	assert.Equal(t, "18080", entry.Text)
}

func TestNumericalEntry_Keyboard(t *testing.T) {
	entry := ui.NewNumericalEntry()
	assert.Equal(t, mobile.NumberKeyboard, entry.Keyboard())
}

func TestNumericalEntry_DirectSetText(t *testing.T) {
	entry := ui.NewNumericalEntry()

	// SetText bypasses the filter; the Validator catches it on save
	entry.SetText("abc")
	assert.Equal(t, "abc", entry.Text)
}

package form

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
)

var today = datemath.New(2025, time.June, 15)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidate_Success(t *testing.T) {
	f := FriendForm{
		Name:        "  Анна Иванова ",
		Email:       "anna@example.org",
		BirthDate:   "15.06.1990",
		Description: " college ",
		Image:       &Attachment{Filename: "a.png", Data: pngHeader},
	}

	sub, err := f.Validate(today)
	require.NoError(t, err)

	assert.Equal(t, "Анна Иванова", sub.Name)
	assert.Equal(t, datemath.New(1990, time.June, 15), sub.BirthDate)
	assert.Equal(t, "college", sub.Description)
	assert.False(t, sub.IsUpdate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		form  FriendForm
		field string
		key   string
	}{
		{"Short name", FriendForm{Name: "Ян", BirthDate: "2000-01-01"}, FieldName, config.TKeyErrNameShort},
		{"Short name counts runes", FriendForm{Name: "Яна", BirthDate: "2000-01-01"}, FieldName, config.TKeyErrNameShort},
		{"Bad email", FriendForm{Name: "Иван Петров", Email: "ivan@", BirthDate: "2000-01-01"}, FieldEmail, config.TKeyErrEmail},
		{"Missing date", FriendForm{Name: "Иван Петров"}, FieldBirthDate, config.TKeyErrDateRequired},
		{"Unparseable date", FriendForm{Name: "Иван Петров", BirthDate: "soon"}, FieldBirthDate, config.TKeyErrDateInvalid},
		{"Future date", FriendForm{Name: "Иван Петров", BirthDate: "2025-06-16"}, FieldBirthDate, config.TKeyErrDateFuture},
		{
			"Oversized image",
			FriendForm{Name: "Иван Петров", BirthDate: "2000-01-01", Image: &Attachment{Data: make([]byte, MaxImageSize+1)}},
			FieldImage, config.TKeyErrImageSize,
		},
		{
			"Wrong image type",
			FriendForm{Name: "Иван Петров", BirthDate: "2000-01-01", Image: &Attachment{ContentType: "application/pdf", Data: []byte("%PDF-1.4")}},
			FieldImage, config.TKeyErrImageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Validate(today)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.key, verr.Fields[tt.field])
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	_, err := FriendForm{Name: "x", Email: "no"}.Validate(today)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, err.Error(), FieldEmail)
}

func TestValidate_TodayIsNotFuture(t *testing.T) {
	_, err := FriendForm{Name: "Новорождённый", BirthDate: today.String()}.Validate(today)
	assert.NoError(t, err)
}

func TestReadAttachment(t *testing.T) {
	a, err := ReadAttachment("photo.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.ContentType)

	big, err := ReadAttachment("big.bin", strings.NewReader(strings.Repeat("x", MaxImageSize+100)))
	require.NoError(t, err)
	assert.Len(t, big.Data, MaxImageSize+1, "Reads stop one byte past the limit")
}

func TestFromRecord(t *testing.T) {
	f := FromRecord(model.Record{ID: 4, DisplayName: "Мария", BirthDate: datemath.New(1999, time.May, 3), RawBirthDate: "03.05.1999"})
	assert.Equal(t, "1999-05-03", f.BirthDate)
	assert.Equal(t, int64(4), f.ID)

	f = FromRecord(model.Record{ID: 5, RawBirthDate: "unknown"})
	assert.Equal(t, "unknown", f.BirthDate, "Unparsed text is kept for the user to fix")
}

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, FieldName, CanonicalField("FIO"))
	assert.Equal(t, FieldBirthDate, CanonicalField("dateofbirth"))
	assert.Equal(t, "other", CanonicalField("other"))
}

package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-congrats/internal/config"
)

// allKeys lists every translation key defined in config.go.
var allKeys = []string{
		config.TKeyMenuFriends,
		config.TKeyMenuCalendar,
		config.TKeyMenuRefresh,
		config.TKeyMenuImport,
		config.TKeyMenuSettings,
		config.TKeyTrayStatus,
		config.TKeyTrayStatusZero,
		config.TKeyNotifStart,
		config.TKeyNotifSuccess,
		config.TKeyNotifError,
		config.TKeyNotifToday,
		config.TKeyWinSettings,
		config.TKeyWinFriends,
		config.TKeyWinCalendar,
		config.TKeyWinImport,
		config.TKeyWinFriendNew,
		config.TKeyWinFriendEdit,
		config.TKeyColName,
		config.TKeyColEmail,
		config.TKeyColDate,
		config.TKeyColAge,
		config.TKeyLblSearch,
		config.TKeyLblPageSize,
		config.TKeyLblStats,
		config.TKeyLblRange,
		config.TKeyLblEmpty,
		config.TKeyLblLoading,
		config.TKeyBtnAdd,
		config.TKeyBtnEdit,
		config.TKeyBtnDelete,
		config.TKeyConfirmDelete,
		config.TKeyBtnRetry,
		config.TKeyErrLoad,
		config.TKeyLblName,
		config.TKeyLblEmail,
		config.TKeyLblBirthDate,
		config.TKeyHelpBirthDate,
		config.TKeyLblDescription,
		config.TKeyLblImage,
		config.TKeyBtnChooseImage,
		config.TKeyErrNameShort,
		config.TKeyErrEmail,
		config.TKeyErrDateRequired,
		config.TKeyErrDateInvalid,
		config.TKeyErrDateFuture,
		config.TKeyErrImageSize,
		config.TKeyErrImageType,
		config.TKeyBtnToday,
		config.TKeyMonths,
		config.TKeyWeekdays,
		config.TKeyLblDayEmpty,
		config.TKeyBtnCongratulate,
		config.TKeyLblCongratulated,
		config.TKeyLblNotToday,
		config.TKeyLblUpcoming,
		config.TKeyDaysToday,
		config.TKeyDaysTomorrow,
		config.TKeyDaysIn,
		config.TKeyDaysUnknown,
		config.TKeyStatusNoFriends,
		config.TKeyStatusAll,
		config.TKeyStatusPartial,
		config.TKeyStatusNone,
		config.TKeyLblLegend,
		config.TKeyErrCongratulation,
		config.TKeyLblServer,
		config.TKeyLblBaseURL,
		config.TKeyHelpBaseURL,
		config.TKeyLblUser,
		config.TKeyLblSession,
		config.TKeyHelpSession,
		config.TKeyLblGeneral,
		config.TKeyLblLanguage,
		config.TKeyHelpLanguage,
		config.TKeyLblRefresh,
		config.TKeyHelpRefresh,
		config.TKeyLblPort,
		config.TKeyHelpPort,
		config.TKeyLblFeedURL,
		config.TKeyLblWeekStart,
		config.TKeyWeekMonday,
		config.TKeyWeekSunday,
		config.TKeyLblNotif,
		config.TKeyLblEnableRem,
		config.TKeyUnitDays,
		config.TKeyUnitHours,
		config.TKeyUnitMinutes,
		config.TKeyDirBefore,
		config.TKeyDirAfter,
		config.TKeyLblStartDay,
		config.TKeyBtnSave,
		config.TKeyBtnCancel,
		config.TKeyLblFooter,
		config.TKeyErrPortReq,
		config.TKeyErrPortNum,
		config.TKeyErrPortRange,
		config.TKeyErrCron,
		config.TKeyErrBaseURL,
		config.TKeyLblSource,
		config.TKeyModeCardDAV,
		config.TKeyModeLocal,
		config.TKeyLblURL,
		config.TKeyHelpURL,
		config.TKeyLblPass,
		config.TKeyBtnBrowse,
		config.TKeyBtnImport,
		config.TKeyImportDone,
		config.TKeyEvtSummaryAge,
		config.TKeyEvtSummaryBirth,
}

// pluralKeys need a form per CLDR category of each language.
var pluralKeys = map[string]map[string][]string{
	config.TKeyTrayStatus: {"en": {"one", "other"}, "ru": {"one", "few", "many", "other"}},
	config.TKeyDaysIn:     {"en": {"one", "other"}, "ru": {"one", "few", "many", "other"}},
}

func loadLocale(t *testing.T, lang string) map[string]any {
	t.Helper()
	name := "active." + lang + ".json"

	// Adjust path if running test from internal/ui or root
	content, err := os.ReadFile(filepath.Join("locales", name))
	if os.IsNotExist(err) {
		content, err = os.ReadFile(filepath.Join("..", "..", "internal", "ui", "locales", name))
	}
	require.NoErrorf(t, err, "Must load %s", name)

	var jsonMap map[string]any
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")
	return jsonMap
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale, with the plural forms the language needs.
func TestI18nIntegrity(t *testing.T) {
	definedKeys := make(map[string]bool, len(allKeys))
	for _, k := range allKeys {
		definedKeys[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			jsonMap := loadLocale(t, lang)

			for _, key := range allKeys {
				value, exists := jsonMap[key]
				if !assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", key, lang) {
					continue
				}

				forms, plural := pluralKeys[key]
				if !plural {
					assert.IsTypef(t, "", value, "Key '%s' should be a plain string", key)
					continue
				}
				m, ok := value.(map[string]any)
				require.Truef(t, ok, "Key '%s' should have plural forms", key)
				for _, form := range forms[lang] {
					assert.Containsf(t, m, form, "Key '%s' lacks the %q form in %s", key, form, lang)
				}
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, definedKeys[jsonKey], "Key '%s' in active.%s.json is not defined in config.go", jsonKey, lang)
			}
		})
	}
}

func TestI18nLists(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		jsonMap := loadLocale(t, lang)
		assert.Len(t, strings.Split(jsonMap[config.TKeyMonths].(string), config.ListSeparator), 12, lang)
		assert.Len(t, strings.Split(jsonMap[config.TKeyWeekdays].(string), config.ListSeparator), config.DaysPerWeek, lang)
	}
}

package config_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tartampluch/go-congrats/internal/config"
)

// TestConstants_Integrity guards keys required at runtime against accidental deletion.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"CSRFCookie", config.CSRFCookie},
		{"SessionCookie", config.SessionCookie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "critical constant %s should not be empty", tt.name)
		})
	}
}

func TestDefaults_Sanity(t *testing.T) {
	assert.Contains(t, config.PageSizeOptions, config.DefaultPageSize)
	assert.True(t, slices.IsSorted(config.PageSizeOptions))
	assert.Greater(t, config.UpcomingPageSize, 0)
	assert.GreaterOrEqual(t, config.SearchDelay, 250*time.Millisecond)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.NoError(t, config.ValidatePort(config.DefaultPort))
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Congrats/"))
}

func TestPaths_Shape(t *testing.T) {
	for _, p := range []string{
		config.PathFriendsPage, config.PathFriendsUpcoming, config.PathFriends,
		config.PathFriendsByDate, config.PathDayData, config.PathCongratulate,
		config.PathFriendCreate, config.PathFriendUpdate, config.PathFriendDelete,
		config.RouteFeed, config.RouteHealth,
	} {
		assert.True(t, strings.HasPrefix(p, "/"), p)
	}
	// ids are appended directly
	assert.True(t, strings.HasSuffix(config.PathFriends, "/"))
	assert.True(t, strings.HasSuffix(config.PathFriendDelete, "/"))
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second)
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute)
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)

	assert.Greater(t, config.MaxHTTPResponseSize, 0)
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1024*1024*1024))
}

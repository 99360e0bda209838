package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-congrats/internal/config"
)

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func serve(t *testing.T, srv *FeedServer, req *http.Request) *http.Response {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestFeed_ServesContent(t *testing.T) {
	srv := NewFeedServer("0")
	ics := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Update(ics, 0)

	resp := serve(t, srv, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, ics, body)
}

func TestFeed_Head(t *testing.T) {
	srv := NewFeedServer("0")
	srv.Update([]byte("DATA"), 1)

	resp := serve(t, srv, httptest.NewRequest(http.MethodHead, config.RouteFeed, nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestFeed_ETag(t *testing.T) {
	srv := NewFeedServer("0")
	srv.Update([]byte("DATA_VERSION_1"), 1)

	first := serve(t, srv, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	etag := first.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	second := serve(t, srv, req)

	assert.Equal(t, http.StatusNotModified, second.StatusCode)
	body, _ := io.ReadAll(second.Body)
	assert.Empty(t, body)

	srv.Update([]byte("DATA_VERSION_2"), 1)
	req = httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	third := serve(t, srv, req)
	assert.Equal(t, http.StatusOK, third.StatusCode)
}

func TestFeed_IfModifiedSince(t *testing.T) {
	srv := NewFeedServer("0")
	srv.Update([]byte("DATA"), 1)

	req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfModifiedSince, time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	assert.Equal(t, http.StatusNotModified, serve(t, srv, req).StatusCode)

	req = httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
	req.Header.Set(config.HeaderIfModifiedSince, time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))
	assert.Equal(t, http.StatusOK, serve(t, srv, req).StatusCode)
}

func TestFeed_MethodNotAllowed(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(t, srv, httptest.NewRequest(http.MethodPost, config.RouteFeed, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestFeed_Initializing(t *testing.T) {
	srv := NewFeedServer("0")
	assert.False(t, srv.Ready())

	resp := serve(t, srv, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHealth(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(t, srv, httptest.NewRequest(http.MethodGet, config.RouteHealth, nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var h Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, config.HealthStarting, h.Status)

	srv.Update([]byte("DATA"), 12)
	resp = serve(t, srv, httptest.NewRequest(http.MethodGet, config.RouteHealth, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, config.HealthOK, h.Status)
	assert.Equal(t, 12, h.Events)
	assert.False(t, h.Updated.IsZero())
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/birthdays.ics", NewFeedServer("8080").URL())
}

func TestStart_PortRequired(t *testing.T) {
	err := NewFeedServer("").Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

// -----------------------------------------------------------------------------
// Concurrency
// -----------------------------------------------------------------------------

// TestServer_RaceCondition stresses Update against concurrent reads. Run with -race.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("0")
	handler := srv.Handler()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)), i)
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

func TestServer_Lifecycle(t *testing.T) {
	const port = "18199"

	srv := NewFeedServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := srv.URL()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "server failed to listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"), 0)

	resp, err = http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timed out")
	}
}

package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
)

// snapshot is one published rendering of the birthday feed.
type snapshot struct {
	data         []byte
	events       int
	etag         string
	lastModified string // RFC1123, as HTTP headers require
	updated      time.Time
}

// Health is the body of the health route.
type Health struct {
	Status  string    `json:"status"`
	Events  int       `json:"events"`
	Updated time.Time `json:"updated,omitzero"`
}

// FeedServer publishes the birthday calendar to local calendar clients.
type FeedServer struct {
	// Readers vastly outnumber writers: one Update per sync.
	current atomic.Pointer[snapshot]
	Port    string
}

// NewFeedServer creates a server bound to localhost:port once started.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Handler returns the routing table. Exposed for tests and embedding.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeed, s.handleFeed)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, 1)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update publishes a new rendering. Readers see the old or the new one, never a mix.
func (s *FeedServer) Update(data []byte, events int) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))
	now := time.Now().UTC()

	s.current.Store(&snapshot{
		data:         data,
		events:       events,
		etag:         etag,
		lastModified: now.Format(http.TimeFormat),
		updated:      now,
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyEvents, events,
		config.LogKeyETag, etag,
	)
}

// Ready reports whether a rendering has been published.
func (s *FeedServer) Ready() bool {
	return s.current.Load() != nil
}

// URL is the address calendar clients subscribe to.
func (s *FeedServer) URL() string {
	return config.SchemeHTTP + "://" + config.LocalhostBindAddr + config.AddrSeparator + s.Port + config.RouteFeed
}

func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	snap := s.current.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == snap.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if notModifiedSince(r.Header.Get(config.HeaderIfModifiedSince), snap.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func notModifiedSince(since, lastModified string) bool {
	if since == "" {
		return false
	}
	client, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	server, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !server.After(client)
}

func (s *FeedServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := Health{Status: config.HealthStarting}
	status := http.StatusServiceUnavailable
	if snap := s.current.Load(); snap != nil {
		health = Health{Status: config.HealthOK, Events: snap.events, Updated: snap.updated}
		status = http.StatusOK
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

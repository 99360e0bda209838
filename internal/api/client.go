package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
)

// ErrSecurityPrecondition is returned by mutating calls when no anti-forgery
// token is known. No request is sent in that case.
var ErrSecurityPrecondition = errors.New(config.ErrNoCSRFToken)

// NetworkError is a failed request: either a transport error (Status == 0)
// or a non-success status.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d", config.ErrNetwork, e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", config.ErrNetwork, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether trying again may succeed.
func (e *NetworkError) Retryable() bool {
	switch {
	case e.Status == 0:
		return !errors.Is(e.Err, context.Canceled)
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	default:
		return e.Status >= http.StatusInternalServerError
	}
}

// Client talks to the congratulations backend on behalf of one session.
type Client struct {
	base *url.URL
	http *http.Client

	// Location turns the server's Date header into a calendar day.
	Location *time.Location

	mu    sync.Mutex
	token Token
}

// New validates baseURL and returns a client with an empty cookie jar.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %q", config.ErrProtocol, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s: missing host", config.ErrInvalidURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		base:     u,
		http:     &http.Client{Timeout: config.HTTPTimeout, Jar: jar},
		Location: time.Local,
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SetSession installs the session cookie of an authenticated browser login.
func (c *Client) SetSession(value string) {
	if value == "" {
		return
	}
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{
		Name:  config.SessionCookie,
		Value: value,
		Path:  "/",
	}})
}

// endpoint resolves an API path against the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// request describes one call.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	mutating    bool
}

// do sends r and returns the limited body of a 2xx response together with
// the response headers. Non-2xx statuses become a *NetworkError, or a
// *form.ValidationError when a 400 carries field messages.
func (c *Client) do(ctx context.Context, r request) ([]byte, *http.Response, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompAPI,
		config.LogKeyOp, r.op)

	var token Token
	if r.mutating {
		token = c.csrfToken()
		if token.Value == "" {
			log.Warn(config.MsgNoCSRFToken)
			return nil, nil, fmt.Errorf("%s: %w", r.op, ErrSecurityPrecondition)
		}
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrBuildRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)
	if r.contentType != "" {
		req.Header.Set(config.HeaderContentType, r.contentType)
	}
	if r.mutating {
		req.Header.Set(token.Header, token.Value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(config.MsgRequestFailed, config.LogKeyError, err)
		return nil, nil, &NetworkError{Op: r.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxHTTPResponseSize))
	if err != nil {
		return nil, nil, &NetworkError{Op: r.op, Status: 0, Err: err}
	}

	log.Debug(config.MsgRequestDone,
		config.LogKeyStatus, resp.StatusCode,
		config.LogKeySizeBytes, len(data),
		config.LogKeyDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusBadRequest {
			if verr := decodeValidationError(data); verr != nil {
				return nil, nil, verr
			}
		}
		log.Warn(config.MsgBadStatus, config.LogKeyStatus, resp.StatusCode)
		return nil, nil, &NetworkError{
			Op:     r.op,
			Status: resp.StatusCode,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	return data, resp, nil
}

package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tartampluch/go-congrats/internal/config"
)

// Token is the anti-forgery value sent with every mutating request.
type Token struct {
	Header string
	Value  string
}

// Token returns the token currently in use, which may be empty.
func (c *Client) Token() Token {
	return c.csrfToken()
}

// SetToken overrides the token, for sessions whose page was parsed elsewhere.
func (c *Client) SetToken(t Token) {
	if t.Header == "" {
		t.Header = config.DefaultCSRFHeader
	}
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

// csrfToken returns the page token if one was scraped, else the value of the
// XSRF-TOKEN cookie under the default header.
func (c *Client) csrfToken() Token {
	c.mu.Lock()
	t := c.token
	c.mu.Unlock()
	if t.Value != "" {
		return t
	}

	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == config.CSRFCookie && ck.Value != "" {
			return Token{Header: config.DefaultCSRFHeader, Value: ck.Value}
		}
	}
	return Token{}
}

// RefreshToken loads the friends page and reads the token from its meta tags.
// When the page carries none, the cookie fallback is kept and
// ErrSecurityPrecondition is returned if that is empty too.
func (c *Client) RefreshToken(ctx context.Context) (Token, error) {
	data, _, err := c.do(ctx, request{
		op:     config.OpRefreshToken,
		method: http.MethodGet,
		path:   config.PathFriendsPage,
	})
	if err != nil {
		return Token{}, err
	}

	if t, ok := ScrapeToken(data); ok {
		c.SetToken(t)
		slog.Debug(config.MsgTokenRefreshed,
			config.LogKeyComponent, config.CompAPI,
			config.LogKeyHeader, t.Header)
		return t, nil
	}

	if t := c.csrfToken(); t.Value != "" {
		return t, nil
	}
	return Token{}, fmt.Errorf("%s: %w", config.OpRefreshToken, ErrSecurityPrecondition)
}

// ScrapeToken finds the _csrf and _csrf_header meta tags of an HTML page.
// The header name defaults to X-CSRF-TOKEN.
func ScrapeToken(page []byte) (Token, bool) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return Token{}, false
	}

	t := Token{Header: config.DefaultCSRFHeader}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
			var name, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "name":
					name = a.Val
				case "content":
					content = a.Val
				}
			}
			switch name {
			case config.MetaCSRF:
				t.Value = content
			case config.MetaCSRFHeader:
				if content != "" {
					t.Header = content
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return t, t.Value != ""
}

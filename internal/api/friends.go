package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
)

// AllFriendsPageSize is the page size used to fetch the whole collection.
const AllFriendsPageSize = 1000

// ListFriends fetches one page of the upcoming-birthday list.
func (c *Client) ListFriends(ctx context.Context, page, size int) (Listing, error) {
	page = max(page, 1)
	if size <= 0 {
		size = config.UpcomingPageSize
	}

	data, _, err := c.do(ctx, request{
		op:     config.OpListFriends,
		method: http.MethodGet,
		path:   config.PathFriendsUpcoming,
		query: url.Values{
			"page": {strconv.Itoa(page)},
			"size": {strconv.Itoa(size)},
		},
	})
	if err != nil {
		return Listing{}, err
	}
	return DecodeListing(data, size)
}

// AllFriends fetches the whole collection, page by page.
func (c *Client) AllFriends(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	for page := 1; ; page++ {
		l, err := c.ListFriends(ctx, page, AllFriendsPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, l.Records...)
		// bare and legacy listings are never paged
		if l.Kind != Paged || page >= l.TotalPages || len(l.Records) == 0 {
			return out, nil
		}
	}
}

// GetFriend fetches one record including its description.
func (c *Client) GetFriend(ctx context.Context, id int64) (model.Record, error) {
	data, _, err := c.do(ctx, request{
		op:     config.OpGetFriend,
		method: http.MethodGet,
		path:   config.PathFriends + strconv.FormatInt(id, 10),
	})
	if err != nil {
		return model.Record{}, err
	}

	var w wireFriend
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", config.ErrDecode, err)
	}
	return w.record(), nil
}

// FriendsByDate lists the records born on the day and month of date, with
// whether each was greeted on date.
func (c *Client) FriendsByDate(ctx context.Context, date datemath.Date) ([]model.DayEntry, error) {
	data, _, err := c.do(ctx, request{
		op:     config.OpFriendsByDate,
		method: http.MethodGet,
		path:   config.PathFriendsByDate,
		query:  url.Values{"date": {date.String()}},
	})
	if err != nil {
		return nil, err
	}

	var ws []wireFriend
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDecode, err)
	}
	out := make([]model.DayEntry, len(ws))
	for i, w := range ws {
		out[i] = w.entry()
	}
	return out, nil
}

// DayData fetches the expected and greeted counts of [start, end].
func (c *Client) DayData(ctx context.Context, start, end datemath.Date) (calendar.DaySeries, error) {
	data, _, err := c.do(ctx, request{
		op:     config.OpDayData,
		method: http.MethodGet,
		path:   config.PathDayData,
		query: url.Values{
			"startDate": {start.String()},
			"endDate":   {end.String()},
		},
	})
	if err != nil {
		return calendar.DaySeries{}, err
	}
	return DecodeDayData(data)
}

// CreateCongratulation records a greeting. The returned day is the one the
// server stored it under: the congratulationDate of the response body when
// present, else the day of the Date header, else the zero Date.
func (c *Client) CreateCongratulation(ctx context.Context, friendID int64, date datemath.Date) (datemath.Date, error) {
	body, err := json.Marshal(struct {
		Date     string `json:"congratulationDate"`
		FriendID int64  `json:"friendId"`
	}{date.String(), friendID})
	if err != nil {
		return datemath.Date{}, err
	}

	data, resp, err := c.do(ctx, request{
		op:          config.OpCongratulate,
		method:      http.MethodPost,
		path:        config.PathCongratulate,
		body:        body,
		contentType: config.MimeJSON,
		mutating:    true,
	})
	if err != nil {
		return datemath.Date{}, err
	}
	if resp.StatusCode != http.StatusCreated {
		return datemath.Date{}, &NetworkError{Op: config.OpCongratulate, Status: resp.StatusCode}
	}

	var echo struct {
		Date string `json:"congratulationDate"`
	}
	if json.Unmarshal(data, &echo) == nil {
		if d, err := datemath.Parse(echo.Date); err == nil {
			return d, nil
		}
	}
	if t, err := http.ParseTime(resp.Header.Get(config.HeaderDate)); err == nil {
		return datemath.FromTime(t.In(c.Location)), nil
	}
	return datemath.Date{}, nil
}

// CreateFriend submits a new record.
func (c *Client) CreateFriend(ctx context.Context, s form.Submission) error {
	return c.submit(ctx, config.OpCreateFriend, config.PathFriendCreate, s)
}

// UpdateFriend submits an edited record.
func (c *Client) UpdateFriend(ctx context.Context, s form.Submission) error {
	if !s.IsUpdate() {
		return fmt.Errorf("%s: %s", config.OpUpdateFriend, config.ErrMissingID)
	}
	return c.submit(ctx, config.OpUpdateFriend, config.PathFriendUpdate, s)
}

func (c *Client) submit(ctx context.Context, op, path string, s form.Submission) error {
	body, contentType, err := encodeSubmission(s)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBuildRequest, err)
	}

	_, _, err = c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: contentType,
		mutating:    true,
	})
	return err
}

// encodeSubmission writes the multipart form the backend binds.
func encodeSubmission(s form.Submission) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{config.PartName, s.Name},
		{config.PartEmail, s.Email},
		{config.PartBirthDate, s.BirthDate.String()},
		{config.PartDescription, s.Description},
	}
	if s.IsUpdate() {
		fields = append(fields, [2]string{config.PartID, strconv.FormatInt(s.ID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if img := s.Image; img != nil && len(img.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
			config.PartImage, escapeQuotes(img.Filename)))
		ct := img.ContentType
		if ct == "" {
			ct = http.DetectContentType(img.Data)
		}
		h.Set(config.HeaderContentType, ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// DeleteFriend removes a record.
func (c *Client) DeleteFriend(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, request{
		op:       config.OpDeleteFriend,
		method:   http.MethodDelete,
		path:     config.PathFriendDelete + strconv.FormatInt(id, 10),
		mutating: true,
	})
	return err
}

// Image downloads an avatar. ref is the imageUrl of a record, absolute or
// relative to the backend.
func (c *Client) Image(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("%s: %s", config.ErrInvalidURL, config.OpImage)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.IsAbs() && u.Host != c.base.Host {
		return nil, fmt.Errorf("%s: %s", config.ErrForeignHost, u.Host)
	}

	data, _, err := c.do(ctx, request{
		op:     config.OpImage,
		method: http.MethodGet,
		path:   u.Path,
	})
	return data, err
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
)

// ErrUnknownListing is returned for a list body of none of the known shapes.
var ErrUnknownListing = errors.New(config.ErrUnknownListing)

// ListingKind tells which of the list shapes the server answered with.
type ListingKind int

const (
	// Paged is {"content": [...], "totalPages": n}.
	Paged ListingKind = iota
	// Bare is a plain JSON array.
	Bare
	// Legacy is {"friends": [...], "total": n}.
	Legacy
)

// Listing is one decoded page of records.
type Listing struct {
	Kind       ListingKind
	Records    []model.Record
	TotalPages int
}

// wireFriend covers FriendResponse and FriendWithCongResponse.
type wireFriend struct {
	ID          int64  `json:"id"`
	FIO         string `json:"fio"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	BirthDate   string `json:"birthDate"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Cong        *bool  `json:"cong"`
}

func (w wireFriend) record() model.Record {
	name := strings.TrimSpace(w.FIO)
	if name == "" {
		name = strings.TrimSpace(w.Name)
	}
	if name == "" {
		name = config.FallbackName
	}

	r := model.Record{
		ID:           w.ID,
		DisplayName:  name,
		Email:        w.Email,
		RawBirthDate: w.BirthDate,
		ImageRef:     w.ImageURL,
		Description:  w.Description,
	}
	if d, err := datemath.Parse(w.BirthDate); err == nil {
		r.BirthDate = d
	}
	return r
}

func (w wireFriend) entry() model.DayEntry {
	return model.DayEntry{Record: w.record(), Congratulated: w.Cong != nil && *w.Cong}
}

func records(ws []wireFriend) []model.Record {
	out := make([]model.Record, len(ws))
	for i, w := range ws {
		out[i] = w.record()
	}
	return out
}

// DecodeListing decodes a list response. size is the requested page size,
// used to derive the page count of the legacy shape.
func DecodeListing(data []byte, size int) (Listing, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Listing{}, ErrUnknownListing
	}

	if trimmed[0] == '[' {
		var ws []wireFriend
		if err := json.Unmarshal(trimmed, &ws); err != nil {
			return Listing{}, fmt.Errorf("%s: %w", config.ErrDecode, err)
		}
		return Listing{Kind: Bare, Records: records(ws), TotalPages: 1}, nil
	}

	var env struct {
		Content    *[]wireFriend `json:"content"`
		TotalPages int           `json:"totalPages"`
		Friends    *[]wireFriend `json:"friends"`
		Total      int           `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Listing{}, fmt.Errorf("%s: %w", config.ErrDecode, err)
	}

	switch {
	case env.Content != nil:
		return Listing{Kind: Paged, Records: records(*env.Content), TotalPages: max(env.TotalPages, 1)}, nil
	case env.Friends != nil:
		total := env.Total
		if total == 0 {
			total = len(*env.Friends)
		}
		pages := 1
		if size > 0 {
			pages = max((total+size-1)/size, 1)
		}
		return Listing{Kind: Legacy, Records: records(*env.Friends), TotalPages: pages}, nil
	default:
		return Listing{}, ErrUnknownListing
	}
}

// DecodeDayData turns the parallel arrays of the day-data endpoint into
// series. Arrays of unequal length are read up to the shorter one.
func DecodeDayData(data []byte) (calendar.DaySeries, error) {
	var wire struct {
		KeysFriends []string          `json:"keysFriends"`
		Required    []json.RawMessage `json:"required"`
		KeysCong    []string          `json:"keysCong"`
		Greet       []json.RawMessage `json:"greet"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return calendar.DaySeries{}, fmt.Errorf("%s: %w", config.ErrDecode, err)
	}

	return calendar.DaySeries{
		Expected: zip(wire.KeysFriends, wire.Required),
		Greeted:  zip(wire.KeysCong, wire.Greet),
	}, nil
}

func zip(keys []string, counts []json.RawMessage) map[string]int {
	n := min(len(keys), len(counts))
	out := make(map[string]int, n)
	for i := range n {
		out[keys[i]] += count(counts[i])
	}
	return out
}

// count reads a number that may arrive quoted. Anything else is zero.
func count(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// decodeValidationError reads a 400 body as field messages, either a flat
// {"field": "message"} object or {"errors": [{"field", "message"}]}.
// It returns nil when the body carries none.
func decodeValidationError(data []byte) *form.ValidationError {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) == 0 {
		return nil
	}

	verr := &form.ValidationError{}
	if raw, ok := obj["errors"]; ok {
		var list []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &list) == nil {
			for _, e := range list {
				if e.Field != "" {
					verr.Add(form.CanonicalField(e.Field), e.Message)
				}
			}
		}
	} else {
		for field, raw := range obj {
			var msg string
			if json.Unmarshal(raw, &msg) == nil {
				verr.Add(form.CanonicalField(field), msg)
			}
		}
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

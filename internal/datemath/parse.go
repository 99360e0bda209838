package datemath

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when no supported format names a valid calendar day.
// Callers treat it as "date absent", never as fatal.
var ErrUnparseable = errors.New("unable to parse date")

var (
	isoPattern    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dottedPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
)

// fallbackLayouts is the generic pass, tried after both strict patterns.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
	"20060102",
}

// Parse reads a birth date in one of the formats the backend and users produce.
// Order: strict YYYY-M-D, strict D.M.YYYY, then the generic layouts.
func Parse(input string) (Date, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Date{}, ErrUnparseable
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		if d, ok := fromParts(m[1], m[2], m[3]); ok {
			return d, nil
		}
	}

	if m := dottedPattern.FindStringSubmatch(s); m != nil {
		if d, ok := fromParts(m[3], m[2], m[1]); ok {
			return d, nil
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}

	return Date{}, ErrUnparseable
}

// MustParse is Parse for literals in tests and tables; it panics on failure.
func MustParse(input string) Date {
	d, err := Parse(input)
	if err != nil {
		panic(err.Error() + ": " + input)
	}
	return d
}

func fromParts(ys, ms, ds string) (Date, bool) {
	y, err1 := strconv.Atoi(ys)
	m, err2 := strconv.Atoi(ms)
	d, err3 := strconv.Atoi(ds)
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, false
	}
	if !valid(y, time.Month(m), d) {
		return Date{}, false
	}
	return Date{Year: y, Month: time.Month(m), Day: d}, true
}

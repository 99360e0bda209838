package model

import (
	"github.com/tartampluch/go-congrats/internal/datemath"
)

// Record is a friend as held by the client.
// It is a read-through copy of the server's data, replaced wholesale on reload.
type Record struct {
	// ID is assigned by the server and unique.
	ID int64

	// DisplayName is the full name ("FIO").
	DisplayName string

	// Email is optional.
	Email string

	// BirthDate is the zero Date when RawBirthDate could not be parsed.
	BirthDate datemath.Date

	// RawBirthDate keeps the text received from the server.
	RawBirthDate string

	// ImageRef is the optional avatar URL.
	ImageRef string

	// Description is only populated by a single-record fetch.
	Description string
}

// HasBirthDate reports whether the record takes part in date-dependent aggregates.
func (r Record) HasBirthDate() bool {
	return !r.BirthDate.IsZero()
}

// Age returns the age at ref and false when the birth date is unknown.
func (r Record) Age(ref datemath.Date) (int, bool) {
	if !r.HasBirthDate() {
		return 0, false
	}
	return datemath.Age(r.BirthDate, ref), true
}

// DaysUntilBirthday returns the days to the next anniversary and false when
// the birth date is unknown.
func (r Record) DaysUntilBirthday(today datemath.Date) (int, bool) {
	if !r.HasBirthDate() {
		return 0, false
	}
	return datemath.DaysUntil(datemath.NextOccurrence(r.BirthDate, today), today), true
}

// DayEntry is a record listed for one calendar day along with whether it
// has already been congratulated on that day.
type DayEntry struct {
	Record        Record
	Congratulated bool
}

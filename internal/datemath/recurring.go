package datemath

import "time"

// Proximity buckets the distance to the next birthday for display.
type Proximity int

const (
	ProximityToday Proximity = iota
	ProximityTomorrow
	ProximitySoon
	ProximityFuture
)

const (
	// SoonDays is the last day count still classified as "soon".
	SoonDays = 3
	// UpcomingDays is the threshold of the "upcoming birthdays" summary counter.
	UpcomingDays = 7
)

// String returns the style class used by the views.
func (p Proximity) String() string {
	switch p {
	case ProximityToday:
		return "today"
	case ProximityTomorrow:
		return "tomorrow"
	case ProximitySoon:
		return "soon"
	default:
		return "future"
	}
}

// AnniversaryIn returns the recurring date of birth in the given year.
// A Feb 29 birthday falls on Feb 28 in non-leap years, matching the server's
// LocalDate.withYear so both sides agree on the day.
func AnniversaryIn(birth Date, year int) Date {
	if birth.Month == time.February && birth.Day == 29 && !IsLeapYear(year) {
		return Date{Year: year, Month: time.February, Day: 28}
	}
	return Date{Year: year, Month: birth.Month, Day: birth.Day}
}

// NextOccurrence returns the first anniversary of birth on or after today.
func NextOccurrence(birth, today Date) Date {
	candidate := AnniversaryIn(birth, today.Year)
	if candidate.Before(today) {
		return AnniversaryIn(birth, today.Year+1)
	}
	return candidate
}

// IsAnniversary reports whether day is a recurrence of birth.
func IsAnniversary(birth, day Date) bool {
	return AnniversaryIn(birth, day.Year) == day
}

// Age returns the completed years between birth and ref, never negative.
// The year ticks over once (ref.Month, ref.Day) reaches (birth.Month, birth.Day),
// so a Feb 29 birth ages on Mar 1 in non-leap years.
func Age(birth, ref Date) int {
	if ref.Before(birth) {
		return 0
	}
	age := ref.Year - birth.Year
	if ref.Month < birth.Month || (ref.Month == birth.Month && ref.Day < birth.Day) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// DaysUntil returns the whole number of days from today to target
// (negative when target is in the past).
func DaysUntil(target, today Date) int {
	return int(target.Time().Sub(today.Time()) / (24 * time.Hour))
}

// Classify maps a day count to its display bucket. Only 0 is today; a
// negative count is a past date and falls into ProximityFuture with every
// other count outside the near buckets.
func Classify(days int) Proximity {
	switch {
	case days < 0:
		return ProximityFuture
	case days == 0:
		return ProximityToday
	case days == 1:
		return ProximityTomorrow
	case days <= SoonDays:
		return ProximitySoon
	default:
		return ProximityFuture
	}
}

// IsUpcoming reports whether a day count falls inside the summary window.
func IsUpcoming(days int) bool {
	return days >= 0 && days <= UpcomingDays
}

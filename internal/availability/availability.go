// Package availability models a trainee's self-reported weekly availability.
//
// Only the five working days are modelled:
//
//	Monday  Tuesday  Wednesday  Thursday  Friday
//
// A day flagged false is an unavailable day. Weekday names use the same
// capitalized spelling as job schedules so the two can be compared directly.
package availability

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Weekday is a canonical capitalized weekday name.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// weekdays is the canonical Monday→Friday order.
var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Weekdays returns the five modelled weekdays in order.
func Weekdays() []Weekday {
	out := make([]Weekday, len(weekdays))
	copy(out, weekdays)
	return out
}

// ParseWeekday converts a raw string to a Weekday. Matching is exact and
// case-sensitive: "monday" is rejected.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return d, nil
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Capitalize upper-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Availability holds one flag per weekday, true = available.
type Availability struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
}

// Default is the selection a fresh session starts with.
func Default() Availability {
	return Availability{Wednesday: true, Thursday: true}
}

// AllAvailable returns an Availability with every day set.
func AllAvailable() Availability {
	return Availability{Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true}
}

// flag returns a pointer to the field backing day, or nil for unknown days.
func (a *Availability) flag(day Weekday) *bool {
	switch day {
	case Monday:
		return &a.Monday
	case Tuesday:
		return &a.Tuesday
	case Wednesday:
		return &a.Wednesday
	case Thursday:
		return &a.Thursday
	case Friday:
		return &a.Friday
	}
	return nil
}

// Toggle flips the flag for day and leaves the other four untouched.
// Unknown days are a no-op.
func (a *Availability) Toggle(day Weekday) {
	if f := a.flag(day); f != nil {
		*f = !*f
	}
}

// IsAvailable reports the flag for day. Unknown days report false.
func (a Availability) IsAvailable(day Weekday) bool {
	if f := a.flag(day); f != nil {
		return *f
	}
	return false
}

// fields mirrors the lowercase JSON keys the checkboxes are bound to.
func (a Availability) fields() []struct {
	key       string
	available bool
} {
	return []struct {
		key       string
		available bool
	}{
		{"monday", a.Monday},
		{"tuesday", a.Tuesday},
		{"wednesday", a.Wednesday},
		{"thursday", a.Thursday},
		{"friday", a.Friday},
	}
}

// UnavailableDays returns the capitalized names of every day flagged false,
// in Monday→Friday order.
func (a Availability) UnavailableDays() []string {
	days := make([]string, 0, len(weekdays))
	for _, f := range a.fields() {
		if !f.available {
			days = append(days, Capitalize(f.key))
		}
	}
	return days
}

// String renders the selection as e.g. "Mon:n Tue:n Wed:y Thu:y Fri:n".
func (a Availability) String() string {
	parts := make([]string, 0, len(weekdays))
	for _, d := range weekdays {
		mark := "n"
		if a.IsAvailable(d) {
			mark = "y"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", string(d)[:3], mark))
	}
	return strings.Join(parts, " ")
}

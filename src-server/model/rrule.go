package model

import (
	"fmt"
	"time"

	"huddle/src-server/form"

	"github.com/xyedo/rrule"
)

var weekdayToRRule = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

var rruleDayToWeekday = map[int]time.Weekday{
	rrule.MO.Day(): time.Monday,
	rrule.TU.Day(): time.Tuesday,
	rrule.WE.Day(): time.Wednesday,
	rrule.TH.Day(): time.Thursday,
	rrule.FR.Day(): time.Friday,
	rrule.SA.Day(): time.Saturday,
	rrule.SU.Day(): time.Sunday,
}

// BuildRRule compiles the snapshot's recurrence fields into an RRULE
// string for storage. One-time events compile to "".
func BuildRRule(snap *form.EventForm) (string, error) {
	if snap.Type != form.EventRecurring || snap.RepeatFrequency == "" {
		return "", nil
	}

	opt := rrule.ROption{}
	switch snap.RepeatFrequency {
	case form.RepeatDaily:
		opt.Freq = rrule.DAILY
	case form.RepeatWeekly:
		opt.Freq = rrule.WEEKLY
		for _, day := range snap.RepeatDays {
			opt.Byweekday = append(opt.Byweekday, weekdayToRRule[day])
		}
	case form.RepeatMonthly:
		opt.Freq = rrule.MONTHLY
	default:
		return "", fmt.Errorf("BuildRRule: unrecognized repeat frequency %q", snap.RepeatFrequency)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("BuildRRule: %w", err)
	}
	return r.String(), nil
}

// ParseRRule recovers the form-level recurrence fields from a stored
// RRULE string. "" parses to no recurrence.
func ParseRRule(s string) (form.RepeatFrequency, []time.Weekday, error) {
	if s == "" {
		return "", nil, nil
	}
	r, err := rrule.StrToRRule(s)
	if err != nil {
		return "", nil, fmt.Errorf("ParseRRule: %w", err)
	}

	var freq form.RepeatFrequency
	switch r.Options.Freq {
	case rrule.DAILY:
		freq = form.RepeatDaily
	case rrule.WEEKLY:
		freq = form.RepeatWeekly
	case rrule.MONTHLY:
		freq = form.RepeatMonthly
	default:
		return "", nil, fmt.Errorf("ParseRRule: unsupported frequency in %q", s)
	}

	var days []time.Weekday
	for _, weekday := range r.Options.Byweekday {
		days = append(days, rruleDayToWeekday[weekday.Day()])
	}
	return freq, days, nil
}

// Occurrences expands the event's recurrence between two instants,
// inclusive. A non-recurring event yields its own start date when it
// falls inside the range.
func (e *Event) Occurrences(from, to time.Time) ([]time.Time, error) {
	start := time.Unix(e.StartDateUnixUTC, 0).UTC()
	if e.RRule == "" {
		if !start.Before(from) && !start.After(to) {
			return []time.Time{start}, nil
		}
		return nil, nil
	}
	r, err := rrule.StrToRRule(e.RRule)
	if err != nil {
		return nil, fmt.Errorf("(*Event).Occurrences: %w", err)
	}
	r.DTStart(start)
	return r.Between(from, to, true), nil
}

// Package diff compares two event form snapshots field by field and
// reports what changed, with both values stringified for notification
// text. The comparison is pure: same inputs, same output, in a fixed
// field order.
package diff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"huddle/src-server/form"
)

const dateLayout = "2006-01-02"

type FieldChange struct {
	Field form.Field `json:"field"`
	Old   string     `json:"oldValue"`
	New   string     `json:"newValue"`
}

// fieldOrder fixes the order changes are reported in, so notification
// text is reproducible for the same two snapshots.
var fieldOrder = []form.Field{
	form.FieldTitle,
	form.FieldDescription,
	form.FieldStartDate,
	form.FieldEndDate,
	form.FieldStartTime,
	form.FieldEndTime,
	form.FieldCapacity,
	form.FieldAccess,
	form.FieldType,
	form.FieldRepeatFrequency,
	form.FieldRepeatDays,
	form.FieldTags,
	form.FieldLocations,
}

var fieldLabels = map[form.Field]string{
	form.FieldTitle:           "Title",
	form.FieldDescription:     "Description",
	form.FieldStartDate:       "Start date",
	form.FieldEndDate:         "End date",
	form.FieldStartTime:       "Start time",
	form.FieldEndTime:         "End time",
	form.FieldCapacity:        "Capacity",
	form.FieldAccess:          "Access",
	form.FieldType:            "Type",
	form.FieldRepeatFrequency: "Repeat frequency",
	form.FieldRepeatDays:      "Repeat days",
	form.FieldTags:            "Tags",
	form.FieldLocations:       "Locations",
}

// Changes returns one FieldChange per field whose value differs under
// the type-appropriate equality: instants for dates, numbers for
// capacity, set equality for tags, sequence equality for locations.
// An empty result means the snapshots are equivalent.
func Changes(before, after *form.EventForm) []FieldChange {
	changes := make([]FieldChange, 0)
	for _, field := range fieldOrder {
		if equal(field, before, after) {
			continue
		}
		changes = append(changes, FieldChange{
			Field: field,
			Old:   Stringify(field, before),
			New:   Stringify(field, after),
		})
	}
	return changes
}

// Summary renders changes into a single multi-line string for
// notification bodies.
func Summary(changes []FieldChange) string {
	lines := make([]string, len(changes))
	for i, change := range changes {
		label, ok := fieldLabels[change.Field]
		if !ok {
			label = string(change.Field)
		}
		lines[i] = fmt.Sprintf("%s: %s is now %s", label, change.Old, change.New)
	}
	return strings.Join(lines, "\n")
}

func equal(field form.Field, before, after *form.EventForm) bool {
	switch field {
	case form.FieldTitle:
		return before.Title == after.Title
	case form.FieldDescription:
		return before.Description == after.Description
	case form.FieldStartDate:
		return before.StartDate.Equal(after.StartDate)
	case form.FieldEndDate:
		return before.EndDate.Equal(after.EndDate)
	case form.FieldStartTime:
		return before.StartTime == after.StartTime
	case form.FieldEndTime:
		return before.EndTime == after.EndTime
	case form.FieldCapacity:
		return before.Capacity == after.Capacity
	case form.FieldAccess:
		return before.Access == after.Access
	case form.FieldType:
		return before.Type == after.Type
	case form.FieldRepeatFrequency:
		return before.RepeatFrequency == after.RepeatFrequency
	case form.FieldRepeatDays:
		return weekdaySetEqual(before.RepeatDays, after.RepeatDays)
	case form.FieldTags:
		return tagSetEqual(before.Tags, after.Tags)
	case form.FieldLocations:
		return locationsEqual(before.Locations, after.Locations)
	}
	return true
}

// Stringify renders one field of the snapshot the way notifications
// display it.
func Stringify(field form.Field, snap *form.EventForm) string {
	switch field {
	case form.FieldTitle:
		return snap.Title
	case form.FieldDescription:
		return snap.Description
	case form.FieldStartDate:
		return stringifyDate(snap.StartDate)
	case form.FieldEndDate:
		return stringifyDate(snap.EndDate)
	case form.FieldStartTime:
		return orNone(snap.StartTime)
	case form.FieldEndTime:
		return orNone(snap.EndTime)
	case form.FieldCapacity:
		return strconv.Itoa(snap.Capacity)
	case form.FieldAccess:
		return orNone(string(snap.Access))
	case form.FieldType:
		return orNone(string(snap.Type))
	case form.FieldRepeatFrequency:
		return orNone(string(snap.RepeatFrequency))
	case form.FieldRepeatDays:
		days := make([]string, len(snap.RepeatDays))
		for i, day := range sortedWeekdays(snap.RepeatDays) {
			days[i] = day.String()
		}
		return orNone(strings.Join(days, ", "))
	case form.FieldTags:
		return orNone(strings.Join(snap.Tags, ", "))
	case form.FieldLocations:
		names := make([]string, len(snap.Locations))
		for i, location := range snap.Locations {
			names[i] = location.Name
		}
		return orNone(strings.Join(names, ", "))
	}
	return ""
}

func stringifyDate(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.UTC().Format(dateLayout)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func tagSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func weekdaySetEqual(a, b []time.Weekday) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedWeekdays(a)
	bs := sortedWeekdays(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sortedWeekdays(days []time.Weekday) []time.Weekday {
	out := append([]time.Weekday(nil), days...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// location order is meaningful, so this is sequence equality, not set
// equality
func locationsEqual(a, b []form.Location) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

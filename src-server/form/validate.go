package form

import (
	"fmt"
	"strings"
	"time"
)

const (
	TitleMinLen        = 3
	TitleMaxLen        = 100
	DescriptionMaxLen  = 500
	LocationNameMinLen = 3
	LocationNameMaxLen = 30
	MaxTags            = 5
	CapacityMin        = 1
	CapacityMax        = 99
)

// Validate checks a single field of the snapshot and returns a
// human-readable message, or "" when the field is fine. Cross-field
// checks (FieldTime) read the whole snapshot; everything is
// synchronous and deterministic.
func Validate(field Field, snap *EventForm) string {
	switch field {
	case FieldTitle:
		title := strings.TrimSpace(snap.Title)
		switch {
		case title == "":
			return "Title is required"
		case len([]rune(title)) < TitleMinLen:
			return fmt.Sprintf("Title must be at least %d characters", TitleMinLen)
		case len([]rune(title)) > TitleMaxLen:
			return fmt.Sprintf("Title must be at most %d characters", TitleMaxLen)
		}
	case FieldDescription:
		description := strings.TrimSpace(snap.Description)
		switch {
		case description == "":
			return "Description is required"
		case len([]rune(description)) > DescriptionMaxLen:
			return fmt.Sprintf("Description must be at most %d characters", DescriptionMaxLen)
		}
	case FieldLocations:
		if len(snap.Locations) == 0 {
			return "At least one location is required"
		}
		for _, location := range snap.Locations {
			name := strings.TrimSpace(location.Name)
			if len([]rune(name)) < LocationNameMinLen || len([]rune(name)) > LocationNameMaxLen {
				return fmt.Sprintf(
					"Location names must be %d to %d characters",
					LocationNameMinLen, LocationNameMaxLen,
				)
			}
		}
	case FieldTags:
		switch {
		case len(snap.Tags) == 0:
			return "At least one tag is required"
		case len(snap.Tags) > MaxTags:
			return fmt.Sprintf("At most %d tags are allowed", MaxTags)
		}
	case FieldStartDate:
		switch {
		case snap.StartDate.IsZero():
			return "Start date is required"
		case snap.StartDate.Before(startOfToday()):
			return "Start date cannot be in the past"
		}
	case FieldStartTime:
		if snap.StartTime == "" {
			return "Start time is required"
		}
		if _, err := time.Parse(ClockLayout, snap.StartTime); err != nil {
			return "Start time must be in HH:MM format"
		}
	case FieldEndTime:
		if snap.EndTime == "" {
			return "End time is required"
		}
		if _, err := time.Parse(ClockLayout, snap.EndTime); err != nil {
			return "End time must be in HH:MM format"
		}
	case FieldTime:
		// only meaningful when both times parse; the per-field checks
		// above cover the rest
		start, errStart := time.Parse(ClockLayout, snap.StartTime)
		end, errEnd := time.Parse(ClockLayout, snap.EndTime)
		if errStart == nil && errEnd == nil && !end.After(start) {
			return "End time must be after start time"
		}
	case FieldRepeatFrequency:
		if snap.Type != EventRecurring {
			return ""
		}
		switch snap.RepeatFrequency {
		case RepeatDaily, RepeatWeekly, RepeatMonthly:
		case "":
			return "Repeat frequency is required for recurring events"
		default:
			return "Repeat frequency must be daily, weekly or monthly"
		}
	case FieldRepeatDays:
		if snap.Type == EventRecurring &&
			snap.RepeatFrequency == RepeatWeekly &&
			len(snap.RepeatDays) == 0 {
			return "Pick at least one repeat day"
		}
	case FieldCapacity:
		if snap.Capacity < CapacityMin || snap.Capacity > CapacityMax {
			return fmt.Sprintf("Capacity must be between %d and %d", CapacityMin, CapacityMax)
		}
	case FieldAccess:
		switch snap.Access {
		case AccessOpen, AccessVerificationRequired:
		case "":
			return "Access level is required"
		default:
			return "Access level must be open or verification_required"
		}
	}
	return ""
}

// ValidateAll recomputes the whole error map from scratch, so keys for
// fields no longer in violation are gone.
func ValidateAll(snap *EventForm) map[Field]string {
	errs := make(map[Field]string)
	for _, field := range SubmitFields {
		if msg := Validate(field, snap); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

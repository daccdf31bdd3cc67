package form

import "fmt"

type Field string

const (
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldType            Field = "type"
	FieldLocations       Field = "locations"
	FieldStartDate       Field = "startDate"
	FieldEndDate         Field = "endDate"
	FieldStartTime       Field = "startTime"
	FieldEndTime         Field = "endTime"
	// the start/end cross-field check reports into this slot, not into
	// startTime or endTime
	FieldTime            Field = "time"
	FieldRepeatFrequency Field = "repeatFrequency"
	FieldRepeatDays      Field = "repeatDays"
	FieldTags            Field = "tags"
	FieldCapacity        Field = "capacity"
	FieldAccess          Field = "access"
)

// SubmitFields is every field a full validation pass covers, in the
// order aggregated error messages are rendered in.
var SubmitFields = []Field{
	FieldTitle,
	FieldDescription,
	FieldLocations,
	FieldTags,
	FieldStartDate,
	FieldStartTime,
	FieldEndTime,
	FieldTime,
	FieldRepeatFrequency,
	FieldRepeatDays,
	FieldCapacity,
	FieldAccess,
}

type EventType string

const (
	EventOneTime   EventType = "one_time"
	EventRecurring EventType = "recurring"
)

type RepeatFrequency string

const (
	RepeatDaily   RepeatFrequency = "daily"
	RepeatWeekly  RepeatFrequency = "weekly"
	RepeatMonthly RepeatFrequency = "monthly"
)

// AccessLevel is the canonical access enum. Two historical client
// field names ("access" w/ public|private and "status" w/
// open|verification_required) alias the same concept; ParseAccessLevel
// accepts all four spellings.
type AccessLevel string

const (
	AccessOpen                 AccessLevel = "open"
	AccessVerificationRequired AccessLevel = "verification_required"
)

func ParseAccessLevel(raw string) (AccessLevel, error) {
	switch raw {
	case "open", "public":
		return AccessOpen, nil
	case "verification_required", "private":
		return AccessVerificationRequired, nil
	default:
		return "", fmt.Errorf("ParseAccessLevel: unrecognized access level %q", raw)
	}
}

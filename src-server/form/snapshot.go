package form

import "time"

// ClockLayout is the wire format of the startTime/endTime fields.
const ClockLayout = "15:04"

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EventForm is the complete value of the event form at one instant.
// A zero EndDate means "not set".
type EventForm struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            EventType       `json:"type"`
	Locations       []Location      `json:"locations"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	StartTime       string          `json:"startTime"`
	EndTime         string          `json:"endTime"`
	RepeatFrequency RepeatFrequency `json:"repeatFrequency"`
	RepeatDays      []time.Weekday  `json:"repeatDays"`
	Tags            []string        `json:"tags"`
	Capacity        int             `json:"capacity"`
	Access          AccessLevel     `json:"access"`
}

func (f *EventForm) Clone() *EventForm {
	out := *f
	out.Locations = append([]Location(nil), f.Locations...)
	out.RepeatDays = append([]time.Weekday(nil), f.RepeatDays...)
	out.Tags = append([]string(nil), f.Tags...)
	return &out
}

// StartsAt composes StartDate and StartTime into one instant in UTC.
// Reports false until both fields hold usable values.
func (f *EventForm) StartsAt() (time.Time, bool) {
	if f.StartDate.IsZero() {
		return time.Time{}, false
	}
	clock, err := time.Parse(ClockLayout, f.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	d := f.StartDate.UTC()
	return time.Date(
		d.Year(), d.Month(), d.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		time.UTC,
	), true
}

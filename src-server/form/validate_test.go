package form_test

import (
	"strings"
	"testing"
	"time"

	"huddle/src-server/form"
)

func validSnapshot() *form.EventForm {
	return &form.EventForm{
		Title:       "Board Game Night",
		Description: "Bring your own games.",
		Type:        form.EventOneTime,
		Locations: []form.Location{
			{Name: "Community Hall", Latitude: 51.2, Longitude: 4.4},
		},
		StartDate: time.Now().UTC().Add(48 * time.Hour),
		StartTime: "09:00",
		EndTime:   "10:00",
		Tags:      []string{"games"},
		Capacity:  10,
		Access:    form.AccessOpen,
	}
}

func TestValidateTitle(t *testing.T) {
	testCases := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "Hi", true},
		{"minimum length", "Hey", false},
		{"trimmed below minimum", "  a  ", true},
		{"maximum length", strings.Repeat("a", 100), false},
		{"too long", strings.Repeat("a", 101), true},
		{"normal", "Board Game Night", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap := validSnapshot()
			snap.Title = tc.title
			msg := form.Validate(form.FieldTitle, snap)
			if tc.wantErr && msg == "" {
				t.Errorf("expected an error for title %q", tc.title)
			}
			if !tc.wantErr && msg != "" {
				t.Errorf("unexpected error for title %q: %s", tc.title, msg)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	snap := validSnapshot()

	snap.Description = ""
	if form.Validate(form.FieldDescription, snap) == "" {
		t.Error("expected an error for empty description")
	}

	snap.Description = strings.Repeat("a", 501)
	if form.Validate(form.FieldDescription, snap) == "" {
		t.Error("expected an error for over-long description")
	}

	snap.Description = strings.Repeat("a", 500)
	if msg := form.Validate(form.FieldDescription, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestValidateLocations(t *testing.T) {
	snap := validSnapshot()

	snap.Locations = nil
	if form.Validate(form.FieldLocations, snap) == "" {
		t.Error("expected an error for empty locations")
	}

	snap.Locations = []form.Location{{Name: "ab"}}
	if form.Validate(form.FieldLocations, snap) == "" {
		t.Error("expected an error for a too-short location name")
	}

	snap.Locations = []form.Location{
		{Name: "Community Hall"},
		{Name: strings.Repeat("x", 31)},
	}
	if form.Validate(form.FieldLocations, snap) == "" {
		t.Error("expected an error when any member name is too long")
	}
}

func TestValidateTags(t *testing.T) {
	snap := validSnapshot()

	snap.Tags = nil
	if form.Validate(form.FieldTags, snap) == "" {
		t.Error("expected an error for empty tags")
	}

	snap.Tags = []string{"a", "b", "c", "d", "e", "f"}
	if form.Validate(form.FieldTags, snap) == "" {
		t.Error("expected an error for more than 5 tags")
	}

	snap.Tags = []string{"a", "b", "c", "d", "e"}
	if msg := form.Validate(form.FieldTags, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestValidateStartDate(t *testing.T) {
	snap := validSnapshot()

	snap.StartDate = time.Time{}
	if form.Validate(form.FieldStartDate, snap) == "" {
		t.Error("expected an error for a missing start date")
	}

	snap.StartDate = time.Now().UTC().Add(-48 * time.Hour)
	if form.Validate(form.FieldStartDate, snap) == "" {
		t.Error("expected an error for a past start date")
	}

	snap.StartDate = time.Now().UTC().Add(48 * time.Hour)
	if msg := form.Validate(form.FieldStartDate, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestValidateTimeRange(t *testing.T) {
	// each time field is fine on its own; the range check reports into
	// the shared time slot only
	snap := validSnapshot()
	snap.StartTime = "09:00"
	snap.EndTime = "08:00"

	if msg := form.Validate(form.FieldStartTime, snap); msg != "" {
		t.Errorf("unexpected startTime error: %s", msg)
	}
	if msg := form.Validate(form.FieldEndTime, snap); msg != "" {
		t.Errorf("unexpected endTime error: %s", msg)
	}
	if form.Validate(form.FieldTime, snap) == "" {
		t.Error("expected a time-range error")
	}

	errs := form.ValidateAll(snap)
	if _, ok := errs[form.FieldTime]; !ok {
		t.Error("full validation should report the time-range error")
	}
	if len(errs) != 1 {
		t.Errorf("expected a single error, got %v", errs)
	}

	snap.EndTime = "09:00"
	if form.Validate(form.FieldTime, snap) == "" {
		t.Error("equal start and end times should be an error")
	}

	snap.EndTime = "09:01"
	if msg := form.Validate(form.FieldTime, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestValidateAccess(t *testing.T) {
	snap := validSnapshot()

	snap.Access = ""
	if form.Validate(form.FieldAccess, snap) == "" {
		t.Error("expected an error for a missing access level")
	}

	snap.Access = form.AccessLevel("invite_only")
	if form.Validate(form.FieldAccess, snap) == "" {
		t.Error("expected an error for an unrecognized access level")
	}

	for _, access := range []form.AccessLevel{form.AccessOpen, form.AccessVerificationRequired} {
		snap.Access = access
		if msg := form.Validate(form.FieldAccess, snap); msg != "" {
			t.Errorf("unexpected error for %q: %s", access, msg)
		}
	}
}

func TestValidateRecurrence(t *testing.T) {
	snap := validSnapshot()
	snap.Type = form.EventRecurring

	if form.Validate(form.FieldRepeatFrequency, snap) == "" {
		t.Error("recurring events should require a repeat frequency")
	}

	snap.RepeatFrequency = form.RepeatWeekly
	if form.Validate(form.FieldRepeatDays, snap) == "" {
		t.Error("weekly recurrence should require repeat days")
	}

	snap.RepeatDays = []time.Weekday{time.Monday}
	if msg := form.Validate(form.FieldRepeatDays, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}

	// one-time events ignore the repeat fields entirely
	snap.Type = form.EventOneTime
	snap.RepeatFrequency = ""
	snap.RepeatDays = nil
	if msg := form.Validate(form.FieldRepeatFrequency, snap); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
}

func TestParseAccessLevel(t *testing.T) {
	testCases := []struct {
		raw  string
		want form.AccessLevel
	}{
		{"open", form.AccessOpen},
		{"public", form.AccessOpen},
		{"verification_required", form.AccessVerificationRequired},
		{"private", form.AccessVerificationRequired},
	}
	for _, tc := range testCases {
		got, err := form.ParseAccessLevel(tc.raw)
		if err != nil {
			t.Errorf("ParseAccessLevel(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("ParseAccessLevel(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
	if _, err := form.ParseAccessLevel("secret"); err == nil {
		t.Error("expected an error for an unknown access level")
	}
}

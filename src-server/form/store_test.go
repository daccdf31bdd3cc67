package form_test

import (
	"testing"
	"time"

	"huddle/src-server/form"
)

func TestStoreDormantEditsKeepErrorsUntouched(t *testing.T) {
	fs := form.NewStore()

	fs.SetTitle("Hi")
	if len(fs.Errors()) != 0 {
		t.Errorf("dormant edit should not touch the error map, got %v", fs.Errors())
	}

	fs.SetCapacity(500)
	if len(fs.Errors()) != 0 {
		t.Errorf("dormant edit should not touch the error map, got %v", fs.Errors())
	}
}

func TestStoreFocusedFieldValidatesLive(t *testing.T) {
	fs := form.NewStore()

	fs.SetFocus(form.FieldTitle)
	fs.SetTitle("Hi")
	if _, ok := fs.Errors()[form.FieldTitle]; !ok {
		t.Error("a focused field should validate on every edit")
	}

	fs.SetTitle("Board Game Night")
	if _, ok := fs.Errors()[form.FieldTitle]; ok {
		t.Error("fixing a focused field should clear its error")
	}

	// other fields stay dormant
	fs.SetCapacity(500)
	if _, ok := fs.Errors()[form.FieldCapacity]; ok {
		t.Error("an unfocused field should stay dormant")
	}
}

func TestStoreBlurBeforeSubmitReturnsToDormant(t *testing.T) {
	fs := form.NewStore()

	fs.SetFocus(form.FieldTitle)
	fs.SetTitle("Hi")
	fs.ClearFocus(form.FieldTitle)

	fs.SetTitle("x")
	if got := fs.Errors()[form.FieldTitle]; got != "Title must be at least 3 characters" {
		t.Errorf("blurred field should keep its last error verbatim, got %q", got)
	}
}

func TestStoreSubmitMakesEveryFieldLive(t *testing.T) {
	fs := form.NewStore()

	fs.SetTitle("Hi")
	errs, ok := fs.AttemptSubmit()
	if ok {
		t.Error("an invalid form should not pass submit")
	}
	if _, found := errs[form.FieldTitle]; !found {
		t.Errorf("submit should surface the title error, got %v", errs)
	}
	if !fs.HasSubmitted() {
		t.Error("a failed submit still marks the form as submitted")
	}

	// same edit as before submit, different behavior now
	fs.SetCapacity(500)
	if _, found := fs.Errors()[form.FieldCapacity]; !found {
		t.Error("after a submit every field should validate live")
	}

	fs.ClearFocus(form.FieldTitle)
	fs.SetTitle("Board Game Night")
	if _, found := fs.Errors()[form.FieldTitle]; found {
		t.Error("blur must not downgrade a field back to dormant after submit")
	}
}

func TestStoreSubmitClearsStaleErrors(t *testing.T) {
	fs := form.NewStore()

	fs.SetTitle("Hi")
	fs.AttemptSubmit()
	if _, found := fs.Errors()[form.FieldTitle]; !found {
		t.Fatal("expected a title error after the first submit")
	}

	fs.SetTitle("Board Game Night")
	fs.SetDescription("Bring your own games.")
	fs.SetLocations([]form.Location{{Name: "Community Hall"}})
	fs.SetTags([]string{"games"})
	fs.SetStartDate(time.Now().UTC().Add(48 * time.Hour))
	fs.SetStartTime("09:00")
	fs.SetEndTime("10:00")
	fs.SetAccess(form.AccessOpen)

	errs, ok := fs.AttemptSubmit()
	if !ok {
		t.Errorf("expected a clean second submit, got %v", errs)
	}
	if len(errs) != 0 {
		t.Errorf("stale keys should be recomputed away, got %v", errs)
	}
}

func TestStoreTimeFieldsShareTheRangeSlot(t *testing.T) {
	fs := form.NewStore()
	fs.SetFocus(form.FieldStartTime)
	fs.SetFocus(form.FieldEndTime)

	fs.SetStartTime("09:00")
	fs.SetEndTime("08:00")
	errs := fs.Errors()
	if _, found := errs[form.FieldTime]; !found {
		t.Errorf("expected the shared time-range error, got %v", errs)
	}
	if _, found := errs[form.FieldStartTime]; found {
		t.Error("the range check must not blame startTime")
	}
	if _, found := errs[form.FieldEndTime]; found {
		t.Error("the range check must not blame endTime")
	}

	// fixing either side clears the shared slot
	fs.SetEndTime("10:00")
	if _, found := fs.Errors()[form.FieldTime]; found {
		t.Error("a valid range should clear the shared error")
	}
}

func TestStoreTypeFlipRevalidatesRepeatFields(t *testing.T) {
	fs := form.NewStore()
	fs.AttemptSubmit() // everything live from here on

	fs.SetType(form.EventRecurring)
	if _, found := fs.Errors()[form.FieldRepeatFrequency]; !found {
		t.Error("flipping to recurring should demand a repeat frequency")
	}

	fs.SetType(form.EventOneTime)
	if _, found := fs.Errors()[form.FieldRepeatFrequency]; found {
		t.Error("flipping back to one-time should clear the repeat error")
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	fs := form.NewStore()
	fs.SetTags([]string{"games"})

	snap := fs.Snapshot()
	snap.Tags[0] = "mutated"
	snap.Title = "mutated"

	fresh := fs.Snapshot()
	if fresh.Tags[0] != "games" || fresh.Title != "" {
		t.Error("Snapshot should hand out an isolated copy")
	}
}

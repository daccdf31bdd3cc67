package model_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"huddle/src-server/form"
	"huddle/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestEventStore(t *testing.T) {
	bundb := newTestDB(t)
	eventStore := model.NewEventStore(bundb)

	snap := &form.EventForm{
		Title:       "Board Game Night",
		Description: "Bring your own games.",
		Type:        form.EventOneTime,
		Locations: []form.Location{
			{Name: "Community Hall", Latitude: 51.2, Longitude: 4.4},
			{Name: "Back Room"},
			{Name: "Garden"},
		},
		StartDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Tags:      []string{"games", "social"},
		Capacity:  10,
		Access:    form.AccessOpen,
	}

	// case: create with a blank id and read the copy back
	saved, err := eventStore.Save(context.Background(), "", snap)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Title != snap.Title || saved.Capacity != snap.Capacity {
		t.Error("saved copy differs from the snapshot", saved)
	}
	if len(saved.Locations) != 3 {
		t.Error("expected three location rows", saved.Locations)
	}
	for i := range snap.Locations {
		if saved.Locations[i] != snap.Locations[i] {
			t.Error("location order not preserved", saved.Locations)
		}
	}
	if len(saved.Tags) != 2 {
		t.Error("expected two tag rows", saved.Tags)
	}
	if !saved.StartDate.Equal(snap.StartDate) {
		t.Error("start date not preserved", saved.StartDate)
	}

	// the saved row carries the generated id
	eventModel := new(model.Event)
	if err := bundb.NewSelect().
		Model(eventModel).
		Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	eventID := eventModel.ID
	if eventID == "" {
		t.Fatal("a blank save id should generate one")
	}

	// case: update replaces location rows wholesale and keeps order
	func() {
		snap.Locations = []form.Location{
			{Name: "Garden"},
			{Name: "Community Hall", Latitude: 51.2, Longitude: 4.4},
		}
		snap.Capacity = 15
		saved, err := eventStore.Save(context.Background(), eventID, snap)
		if err != nil {
			t.Error(err)
		}
		if saved.Capacity != 15 {
			t.Error("capacity not updated", saved.Capacity)
		}
		if len(saved.Locations) != 2 ||
			saved.Locations[0].Name != "Garden" ||
			saved.Locations[1].Name != "Community Hall" {
			t.Error("location rows should be replaced in order", saved.Locations)
		}
		count, err := bundb.NewSelect().
			Model((*model.EventLocation)(nil)).
			Where("event_id = ?", eventID).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 2 {
			t.Error("stale location rows left behind", count)
		}
	}()

	// case: the update bumped the sequence counter
	func() {
		eventModel := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModel).
			Where("id = ?", eventID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if eventModel.Sequence != 1 {
			t.Error("expected sequence 1 after one update", eventModel.Sequence)
		}
		if eventModel.UpdatedAt == 0 {
			t.Error("updated_at should be set on update")
		}
	}()

	// case: loading a missing id
	func() {
		if _, err := eventStore.Load(context.Background(), uuid.NewString()); !errors.Is(err, model.ErrEventNotFound) {
			t.Error("expected ErrEventNotFound, got", err)
		}
	}()

	// case: delete event and related rows gone
	func() {
		if _, err := bundb.NewDelete().
			Model((*model.Event)(nil)).
			Where("id = ?", eventID).
			Exec(context.WithValue(context.Background(), model.EventIDCtxKey, eventID)); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.EventLocation)(nil)).
			Where("event_id = ?", eventID).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 0 {
			t.Error("location rows should not exist", count)
		}
		count, err = bundb.NewSelect().
			Model((*model.EventTag)(nil)).
			Where("event_id = ?", eventID).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 0 {
			t.Error("tag rows should not exist", count)
		}
	}()
}

func TestRRuleRoundtrip(t *testing.T) {
	snap := &form.EventForm{
		Type:            form.EventRecurring,
		RepeatFrequency: form.RepeatWeekly,
		RepeatDays:      []time.Weekday{time.Monday, time.Friday},
	}

	rruleStr, err := model.BuildRRule(snap)
	if err != nil {
		t.Fatal(err)
	}
	if rruleStr == "" {
		t.Fatal("a recurring event should compile to a non-empty rrule")
	}

	freq, days, err := model.ParseRRule(rruleStr)
	if err != nil {
		t.Fatal(err)
	}
	if freq != form.RepeatWeekly {
		t.Error("frequency not preserved", freq)
	}
	if len(days) != 2 {
		t.Error("repeat days not preserved", days)
	}
	gotDays := map[time.Weekday]bool{}
	for _, day := range days {
		gotDays[day] = true
	}
	if !gotDays[time.Monday] || !gotDays[time.Friday] {
		t.Error("wrong repeat days", days)
	}

	// one-time events compile to ""
	oneTime := &form.EventForm{Type: form.EventOneTime}
	if rruleStr, err := model.BuildRRule(oneTime); err != nil || rruleStr != "" {
		t.Error("one-time events should compile to an empty rrule", rruleStr, err)
	}
}

func TestEventOccurrences(t *testing.T) {
	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // a Monday

	// case: non-recurring event inside and outside the window
	func() {
		eventModel := model.Event{StartDateUnixUTC: start.Unix()}
		occurrences, err := eventModel.Occurrences(start.AddDate(0, 0, -1), start.AddDate(0, 0, 1))
		if err != nil {
			t.Error(err)
		}
		if len(occurrences) != 1 || !occurrences[0].Equal(start) {
			t.Error("expected the event's own start", occurrences)
		}

		occurrences, err = eventModel.Occurrences(start.AddDate(0, 0, 1), start.AddDate(0, 0, 2))
		if err != nil {
			t.Error(err)
		}
		if len(occurrences) != 0 {
			t.Error("expected no occurrence outside the window", occurrences)
		}
	}()

	// case: weekly recurrence expands inside the window
	func() {
		rruleStr, err := model.BuildRRule(&form.EventForm{
			Type:            form.EventRecurring,
			RepeatFrequency: form.RepeatWeekly,
			RepeatDays:      []time.Weekday{time.Monday},
		})
		if err != nil {
			t.Fatal(err)
		}
		eventModel := model.Event{StartDateUnixUTC: start.Unix(), RRule: rruleStr}
		occurrences, err := eventModel.Occurrences(start, start.AddDate(0, 0, 20))
		if err != nil {
			t.Error(err)
		}
		if len(occurrences) != 3 {
			t.Error("expected three Mondays in a 21-day window", occurrences)
		}
	}()
}

func TestNotificationInsert(t *testing.T) {
	bundb := newTestDB(t)

	notificationModel := model.Notification{
		ID:            uuid.NewString(),
		EventID:       uuid.NewString(),
		Title:         "Upcoming event",
		Body:          "\"Board Game Night\" starts in 15 minutes",
		SendAtUnixUTC: time.Now().UTC().Add(time.Hour).Unix(),
	}
	if err := notificationModel.Insert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// blank title is rejected
	bad := notificationModel
	bad.ID = uuid.NewString()
	bad.Title = ""
	if err := bad.Insert(context.Background(), bundb); err == nil {
		t.Error("expected an error for a blank title")
	}
}

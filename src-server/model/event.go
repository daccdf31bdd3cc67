package model

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"huddle/src-server/form"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

type EventIDCtxKeyType string

const EventIDCtxKey EventIDCtxKeyType = "event-id"

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`          // required
	Title       string `bun:"title,notnull"`  // required
	Description string `bun:"description,notnull"`
	EventType   string `bun:"event_type,notnull"`

	StartDateUnixUTC int64  `bun:"start_date,notnull"` // required
	EndDateUnixUTC   int64  `bun:"end_date"`
	StartTime        string `bun:"start_time,notnull"`
	EndTime          string `bun:"end_time,notnull"`
	RRule            string `bun:"rrule"`

	Capacity    int    `bun:"capacity,notnull"`
	AccessLevel string `bun:"access_level,notnull"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
	Sequence  int   `bun:"sequence"`

	Locations []*EventLocation `bun:"rel:has-many,join:id=event_id"`
	Tags      []*EventTag      `bun:"rel:has-many,join:id=event_id"`
}

// Upsert validates the row and inserts or updates it. Location and tag
// rows are replaced separately by the EventStore.
func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.StartDateUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: start date is blank")
	case e.StartTime == "" || e.EndTime == "":
		return fmt.Errorf("(*Event).Upsert: start time and end time are required")
	case e.Capacity < form.CapacityMin || e.Capacity > form.CapacityMax:
		return fmt.Errorf("(*Event).Upsert: capacity %d out of range", e.Capacity)
	case e.AccessLevel == "":
		return fmt.Errorf("(*Event).Upsert: access level is blank")
	case e.EndDateUnixUTC != 0 && e.StartDateUnixUTC > e.EndDateUnixUTC:
		return fmt.Errorf("(*Event).Upsert: start date must be before end date")
	}
	if _, err := form.ParseAccessLevel(e.AccessLevel); err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}
	if e.RRule != "" {
		if _, err := rrule.StrToRRule(e.RRule); err != nil {
			return fmt.Errorf("(*Event).Upsert: invalid rrule: %w", err)
		}
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		e.Sequence++
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

var _ bun.AfterDeleteHook = (*Event)(nil)

// Cleanup location, tag and pending notification rows
func (e *Event) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("(*Event).AfterDelete: db is nil")
	}

	switch eventID := ctx.Value(EventIDCtxKey).(type) {
	case string:
		if eventID == "" {
			return fmt.Errorf("(*Event).AfterDelete: event id is blank")
		}
		for _, related := range []interface{}{
			(*EventLocation)(nil),
			(*EventTag)(nil),
			(*Notification)(nil),
		} {
			if _, err := query.DB().NewDelete().
				Model(related).
				Where("event_id = ?", eventID).
				Exec(ctx); err != nil {
				return fmt.Errorf("(*Event).AfterDelete: can't delete related rows: %w", err)
			}
		}
	case nil:
		return fmt.Errorf("(*Event).AfterDelete: event id is nil")
	default:
		return fmt.Errorf("(*Event).AfterDelete: wrong event id type | type=%T", eventID)
	}

	return nil
}

// FromForm fills the row from a form snapshot. Locations and tags are
// handled by the caller; recurrence is compiled into an RRULE string.
func (e *Event) FromForm(id string, snap *form.EventForm) error {
	rruleStr, err := BuildRRule(snap)
	if err != nil {
		return fmt.Errorf("(*Event).FromForm: %w", err)
	}

	e.ID = id
	e.Title = snap.Title
	e.Description = snap.Description
	e.EventType = string(snap.Type)
	e.StartDateUnixUTC = snap.StartDate.UTC().Unix()
	if !snap.EndDate.IsZero() {
		e.EndDateUnixUTC = snap.EndDate.UTC().Unix()
	} else {
		e.EndDateUnixUTC = 0
	}
	e.StartTime = snap.StartTime
	e.EndTime = snap.EndTime
	e.RRule = rruleStr
	e.Capacity = snap.Capacity
	e.AccessLevel = string(snap.Access)
	return nil
}

// ToForm rebuilds a form snapshot from the row and its loaded
// relations.
func (e *Event) ToForm() (*form.EventForm, error) {
	access, err := form.ParseAccessLevel(e.AccessLevel)
	if err != nil {
		return nil, fmt.Errorf("(*Event).ToForm: %w", err)
	}
	freq, days, err := ParseRRule(e.RRule)
	if err != nil {
		// a bad stored rrule shouldn't make the whole event unloadable
		slog.Warn("can't parse stored rrule", "eventId", e.ID, "rrule", e.RRule, "error", err)
	}

	snap := &form.EventForm{
		Title:           e.Title,
		Description:     e.Description,
		Type:            form.EventType(e.EventType),
		StartDate:       time.Unix(e.StartDateUnixUTC, 0).UTC(),
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		RepeatFrequency: freq,
		RepeatDays:      days,
		Capacity:        e.Capacity,
		Access:          access,
	}
	if e.EndDateUnixUTC != 0 {
		snap.EndDate = time.Unix(e.EndDateUnixUTC, 0).UTC()
	}
	for _, location := range e.Locations {
		snap.Locations = append(snap.Locations, form.Location{
			Name:      location.Name,
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		})
	}
	for _, tag := range e.Tags {
		snap.Tags = append(snap.Tags, tag.Name)
	}
	return snap, nil
}

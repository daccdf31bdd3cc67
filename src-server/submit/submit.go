// Package submit orchestrates a form submission: full validation,
// persistence through the event store, and for edits a semantic diff
// against the originally loaded snapshot that feeds best-effort change
// notifications.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"huddle/src-server/diff"
	"huddle/src-server/form"
)

// ErrSubmitInFlight is returned while an earlier submission has not
// resolved yet. Interleaved submissions could diff against a stale
// original snapshot.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ReminderLead is how long before the event start the scheduled
// reminder notification fires.
const ReminderLead = 15 * time.Minute

type Status int

const (
	StatusInvalid Status = iota
	StatusSaveFailed
	StatusSaved
)

func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusSaveFailed:
		return "save_failed"
	case StatusSaved:
		return "saved"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Status      Status
	Message     string
	FieldErrors map[form.Field]string
	// the persisted server copy, set on StatusSaved
	Event *form.EventForm
	// non-nil on a successful edit; empty when nothing changed
	Changes []diff.FieldChange
}

// EventStore is the persistence collaborator. An empty id on Save
// means create.
type EventStore interface {
	Load(ctx context.Context, id string) (*form.EventForm, error)
	Save(ctx context.Context, id string, snap *form.EventForm) (*form.EventForm, error)
}

// Notifier is the notification-delivery collaborator. A nil when means
// "deliver now"; the returned handle is opaque.
type Notifier interface {
	Schedule(ctx context.Context, title, body string, data map[string]string, when *time.Time) (string, error)
}

type Coordinator struct {
	store    EventStore
	notifier Notifier
	inFlight atomic.Bool
}

func NewCoordinator(store EventStore, notifier Notifier) *Coordinator {
	return &Coordinator{store: store, notifier: notifier}
}

// Submit runs the full protocol. eventID is blank for the create flow;
// original is the snapshot loaded at session start for the edit flow,
// nil otherwise. Validation and save failures come back as Outcome
// data; the only error return is ErrSubmitInFlight.
func (c *Coordinator) Submit(
	ctx context.Context,
	fs *form.Store,
	eventID string,
	original *form.EventForm,
) (*Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	fieldErrs, ok := fs.AttemptSubmit()
	if !ok {
		return &Outcome{
			Status:      StatusInvalid,
			Message:     aggregateErrors(fieldErrs),
			FieldErrors: fieldErrs,
		}, nil
	}

	snap := fs.Snapshot()
	saved, err := c.store.Save(ctx, eventID, &snap)
	if err != nil {
		// the in-memory snapshot stays untouched, the user's edits
		// survive a failed save
		return &Outcome{
			Status:  StatusSaveFailed,
			Message: err.Error(),
		}, nil
	}

	outcome := &Outcome{
		Status:  StatusSaved,
		Message: "Event saved.",
		Event:   saved,
	}
	if original != nil {
		outcome.Changes = diff.Changes(original, &snap)
		if len(outcome.Changes) > 0 {
			c.dispatchNotifications(ctx, eventID, &snap, outcome.Changes)
		}
	}
	return outcome, nil
}

// dispatchNotifications is fire-and-forget relative to the submission
// outcome: the save already succeeded, so delivery failures are logged
// and swallowed.
func (c *Coordinator) dispatchNotifications(
	ctx context.Context,
	eventID string,
	snap *form.EventForm,
	changes []diff.FieldChange,
) {
	data := map[string]string{"eventId": eventID}

	if _, err := c.notifier.Schedule(
		ctx,
		fmt.Sprintf("%q was updated", snap.Title),
		diff.Summary(changes),
		data,
		nil,
	); err != nil {
		slog.Warn("can't deliver change notification", "eventId", eventID, "error", err)
	}

	startsAt, ok := snap.StartsAt()
	if !ok {
		return
	}
	reminderAt := startsAt.Add(-ReminderLead)
	if _, err := c.notifier.Schedule(
		ctx,
		"Upcoming event",
		fmt.Sprintf("%q starts in 15 minutes", snap.Title),
		data,
		&reminderAt,
	); err != nil {
		slog.Warn("can't schedule reminder notification", "eventId", eventID, "error", err)
	}
}

// aggregateErrors renders every current field error into one
// multi-line message, in the fixed submit-field order.
func aggregateErrors(fieldErrs map[form.Field]string) string {
	lines := []string{"Validation failed:"}
	for _, field := range form.SubmitFields {
		if msg, ok := fieldErrs[field]; ok {
			lines = append(lines, "- "+msg)
		}
	}
	return strings.Join(lines, "\n")
}

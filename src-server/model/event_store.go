package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"huddle/src-server/form"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrEventNotFound distinguishes a missing record from a transport
// failure.
var ErrEventNotFound = errors.New("event not found")

// EventStore persists form snapshots as event rows plus ordered
// location rows and tag rows. It implements the persistence
// collaborator of the submission coordinator.
type EventStore struct {
	db *bun.DB
}

func NewEventStore(db *bun.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Load(ctx context.Context, id string) (*form.EventForm, error) {
	eventModel := new(Event)
	if err := s.db.NewSelect().
		Model(eventModel).
		Relation("Locations", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Relation("Tags").
		Where("event.id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("(*EventStore).Load: %w", ErrEventNotFound)
		}
		return nil, fmt.Errorf("(*EventStore).Load: %w", err)
	}
	snap, err := eventModel.ToForm()
	if err != nil {
		return nil, fmt.Errorf("(*EventStore).Load: %w", err)
	}
	return snap, nil
}

// Save upserts the event row and replaces its location and tag rows
// wholesale, all in one transaction. A blank id means create; the
// persisted copy is re-read and returned.
func (s *EventStore) Save(ctx context.Context, id string, snap *form.EventForm) (*form.EventForm, error) {
	if id == "" {
		id = uuid.NewString()
	}

	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		eventModel := new(Event)
		if err := tx.NewSelect().
			Model(eventModel).
			Where("id = ?", id).
			Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err := eventModel.FromForm(id, snap); err != nil {
			return err
		}
		if err := eventModel.Upsert(ctx, tx); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*EventLocation)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if len(snap.Locations) > 0 {
			locationModels := make([]EventLocation, len(snap.Locations))
			for i, location := range snap.Locations {
				locationModels[i] = EventLocation{
					EventID:   id,
					Position:  i,
					Name:      location.Name,
					Latitude:  location.Latitude,
					Longitude: location.Longitude,
				}
			}
			if _, err := tx.NewInsert().
				Model(&locationModels).
				Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := tx.NewDelete().
			Model((*EventTag)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if len(snap.Tags) > 0 {
			tagModels := make([]EventTag, len(snap.Tags))
			for i, tag := range snap.Tags {
				tagModels[i] = EventTag{EventID: id, Name: tag}
			}
			if _, err := tx.NewInsert().
				Model(&tagModels).
				Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("(*EventStore).Save: %w", err)
	}

	saved, err := s.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("(*EventStore).Save: can't re-read saved event: %w", err)
	}
	return saved, nil
}

// ListBetween returns the events with at least one occurrence between
// two instants, relations loaded.
func (s *EventStore) ListBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	eventModels := make([]Event, 0)
	if err := s.db.NewSelect().
		Model(&eventModels).
		Relation("Locations", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Relation("Tags").
		Order("start_date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).ListBetween: %w", err)
	}

	out := make([]Event, 0, len(eventModels))
	for _, eventModel := range eventModels {
		occurrences, err := eventModel.Occurrences(from, to)
		if err != nil {
			return nil, fmt.Errorf("(*EventStore).ListBetween: %w", err)
		}
		if len(occurrences) > 0 {
			out = append(out, eventModel)
		}
	}
	return out, nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"huddle/src-server/model"
	"huddle/src-server/submit"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Queue wraps another notifier. Notifications scheduled for the future
// become pending rows that the dispatch loop delivers when due;
// everything else passes straight through.
type Queue struct {
	db   *bun.DB
	next submit.Notifier
}

func NewQueue(db *bun.DB, next submit.Notifier) *Queue {
	return &Queue{db: db, next: next}
}

func (q *Queue) Schedule(ctx context.Context, title, body string, data map[string]string, when *time.Time) (string, error) {
	if when == nil || !when.After(time.Now()) {
		return q.next.Schedule(ctx, title, body, data, nil)
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("(*Queue).Schedule: can't encode data: %w", err)
	}
	notificationModel := model.Notification{
		ID:            uuid.NewString(),
		EventID:       data["eventId"],
		Title:         title,
		Body:          body,
		Data:          string(dataJSON),
		SendAtUnixUTC: when.UTC().Unix(),
	}
	if err := notificationModel.Insert(ctx, q.db); err != nil {
		return "", fmt.Errorf("(*Queue).Schedule: %w", err)
	}
	return notificationModel.ID, nil
}

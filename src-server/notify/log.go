package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Log is the fallback notifier used when no Discord channel is
// configured; it only writes to the structured log.
type Log struct{}

func (Log) Schedule(ctx context.Context, title, body string, data map[string]string, when *time.Time) (string, error) {
	handle := uuid.NewString()
	slog.Info("notification",
		"handle", handle,
		"title", title,
		"body", body,
		"data", data,
		"when", when,
	)
	return handle, nil
}

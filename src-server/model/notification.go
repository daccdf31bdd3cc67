package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Notification is a scheduled notification waiting for dispatch. The
// scheduler polls unsent rows that are due and delivers them.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID      string `bun:"id,pk"`
	EventID string `bun:"event_id"`
	Title   string `bun:"title,notnull"`
	Body    string `bun:"body,notnull"`
	// JSON-encoded opaque payload handed back to the delivery channel
	Data          string `bun:"data"`
	SendAtUnixUTC int64  `bun:"send_at,notnull"`
	Sent          bool   `bun:"sent"`
}

func (n *Notification) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case n.ID == "":
		return fmt.Errorf("(*Notification).Insert: id is blank")
	case n.Title == "":
		return fmt.Errorf("(*Notification).Insert: title is blank")
	case n.SendAtUnixUTC == 0:
		return fmt.Errorf("(*Notification).Insert: send at is blank")
	}
	if _, err := db.NewInsert().
		Model(n).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Notification).Insert: %w", err)
	}
	return nil
}

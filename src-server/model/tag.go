package model

import "github.com/uptrace/bun"

type EventTag struct {
	bun.BaseModel `bun:"table:event_tags"`

	EventID string `bun:"event_id,notnull"`
	Name    string `bun:"name,notnull"`
}

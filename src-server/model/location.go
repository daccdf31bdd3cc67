package model

import "github.com/uptrace/bun"

// EventLocation rows carry the ordered location list of an event; the
// position column is the display order. Reordering is a permutation of
// positions, never a create/destroy.
type EventLocation struct {
	bun.BaseModel `bun:"table:event_locations"`

	ID        int64   `bun:"id,pk,autoincrement"`
	EventID   string  `bun:"event_id,notnull"`
	Position  int     `bun:"position,notnull"`
	Name      string  `bun:"name,notnull"`
	Latitude  float64 `bun:"latitude"`
	Longitude float64 `bun:"longitude"`
}

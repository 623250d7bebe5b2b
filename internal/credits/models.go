package credits

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is an article record. Title holds the title key (spaces stored as underscores).
type Page struct {
	bun.BaseModel `bun:"table:page,alias:p"`

	ID        uuid.UUID `bun:"page_id,pk,type:uuid" json:"page_id"`
	Namespace int       `bun:"page_namespace,notnull" json:"page_namespace"`
	Title     string    `bun:"page_title,notnull" json:"page_title"`
}

// Revision is one saved version of a page, attributed to exactly one actor.
type Revision struct {
	bun.BaseModel `bun:"table:revision,alias:r"`

	ID        uuid.UUID `bun:"rev_id,pk,type:uuid" json:"rev_id"`
	PageID    uuid.UUID `bun:"rev_page,notnull,type:uuid" json:"rev_page"`
	ActorID   uuid.UUID `bun:"rev_actor,notnull,type:uuid" json:"rev_actor"`
	Timestamp time.Time `bun:"rev_timestamp,notnull" json:"rev_timestamp"`
}

// Actor is the unit of attribution for revisions. UserID is nil for
// anonymous and IP actors.
type Actor struct {
	bun.BaseModel `bun:"table:actor,alias:a"`

	ID     uuid.UUID  `bun:"actor_id,pk,type:uuid" json:"actor_id"`
	UserID *uuid.UUID `bun:"actor_user,type:uuid" json:"actor_user,omitempty"`
	Name   string     `bun:"actor_name,notnull" json:"actor_name"`
}

// Models lists the records read by this package, in dependency order.
func Models() []any {
	return []any{
		(*Page)(nil),
		(*Actor)(nil),
		(*Revision)(nil),
	}
}

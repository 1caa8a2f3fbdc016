package auditdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Log is one audit entry. UserID names the acting teacher when known and is
// cleared if that teacher is deleted.
type Log struct {
	bun.BaseModel `bun:"table:logs,alias:lg"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Action    string    `bun:"action,notnull,type:varchar(200)" json:"action"`
	UserID    *int64    `bun:"user_id" json:"user_id,omitempty"`
	Timestamp time.Time `bun:"timestamp,notnull" json:"timestamp"`
}

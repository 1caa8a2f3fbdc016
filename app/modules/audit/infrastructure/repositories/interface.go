package auditdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for audit log persistence.
type Repository interface {
	// Insert appends an entry and fills its ID. An unknown UserID is a
	// NotFoundError.
	Insert(ctx context.Context, db bun.IDB, entry *Log) error

	// List returns up to limit entries, newest first.
	List(ctx context.Context, db bun.IDB, limit int) ([]Log, error)
}

package auditdb

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
)

// MaxActionLength bounds Log.Action.
const MaxActionLength = 200

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new audit repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Insert appends entry. A UserID naming no teacher is a NotFoundError and
// an overlong action is truncated.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, entry *Log) error {
	db = r.resolveDB(db)
	if entry.Action == "" {
		return sportserr.Invalid("action", "is required")
	}
	if runes := []rune(entry.Action); len(runes) > MaxActionLength {
		entry.Action = string(runes[:MaxActionLength])
	}
	if entry.UserID != nil {
		ok, err := db.NewSelect().Table("teachers").Where("id = ?", *entry.UserID).Exists(ctx)
		if err != nil {
			return sportserr.Translate(sportserr.OpRead, "teacher", fmt.Sprint(*entry.UserID), err)
		}
		if !ok {
			return sportserr.NotFound("teacher", *entry.UserID)
		}
	}
	if _, err := db.NewInsert().Model(entry).Returning("id").Exec(ctx); err != nil {
		return sportserr.Translate(sportserr.OpCreate, "log", "new", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, limit int) ([]Log, error) {
	db = r.resolveDB(db)
	entries := []Log{}
	err := db.NewSelect().
		Model(&entries).
		OrderExpr(`"timestamp" DESC, "id" DESC`).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return entries, nil
}

// CreateSchema creates the logs table. The registry schema must exist first.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*Log)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "teachers" ("id") ON DELETE SET NULL`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create logs table: %w", err)
	}
	_, err = db.NewCreateIndex().
		Model((*Log)(nil)).
		Index("idx_logs_timestamp").
		Column("timestamp").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create logs index: %w", err)
	}
	return nil
}

// DropSchema drops the logs table.
func DropSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewDropTable().Model((*Log)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop logs table: %w", err)
	}
	return nil
}

package standingsdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the report queries.
type Repository interface {
	// SchoolStandings aggregates results per school, including schools
	// without results.
	SchoolStandings(ctx context.Context, db bun.IDB) ([]StandingRow, error)

	// EventResultRows joins every result with its related rows. Related
	// columns are nil when the row is missing.
	EventResultRows(ctx context.Context, db bun.IDB) ([]EventResultRow, error)
}

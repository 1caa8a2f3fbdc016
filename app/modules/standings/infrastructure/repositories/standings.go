package standingsdb

import (
	"context"
	"fmt"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// StandingRow is one school's raw aggregate.
type StandingRow struct {
	SchoolID           int64  `bun:"school_id"`
	SchoolName         string `bun:"school_name"`
	EventsParticipated int    `bun:"events_participated"`
	TotalResults       int    `bun:"total_results"`
	TotalPoints        int    `bun:"total_points"`
}

// EventResultRow is one result joined with its event, sport, responsible
// teacher, participant, school and category.
type EventResultRow struct {
	ResultID             int64               `bun:"result_id"`
	EventID              *int64              `bun:"event_id"`
	EventName            *string             `bun:"event_name"`
	EventDate            registrydb.Date     `bun:"event_date"`
	Location             *string             `bun:"location"`
	SportName            *string             `bun:"sport_name"`
	TeacherFirstName     *string             `bun:"teacher_first_name"`
	TeacherLastName      *string             `bun:"teacher_last_name"`
	ParticipantID        *int64              `bun:"participant_id"`
	ParticipantFirstName *string             `bun:"participant_first_name"`
	ParticipantLastName  *string             `bun:"participant_last_name"`
	SchoolName           *string             `bun:"school_name"`
	CategoryName         *string             `bun:"category_name"`
	Time                 registrydb.RaceTime `bun:"time"`
	Points               int                 `bun:"points"`
	Place                int                 `bun:"place"`
}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new standings repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) SchoolStandings(ctx context.Context, db bun.IDB) ([]StandingRow, error) {
	db = r.resolveDB(db)
	rows := []StandingRow{}
	err := db.NewSelect().
		TableExpr("schools AS s").
		ColumnExpr("s.id AS school_id").
		ColumnExpr("s.name AS school_name").
		ColumnExpr("COUNT(DISTINCT r.event_id) AS events_participated").
		ColumnExpr("COUNT(r.id) AS total_results").
		ColumnExpr("COALESCE(SUM(r.points), 0) AS total_points").
		Join("LEFT JOIN participants AS p ON p.school_id = s.id").
		Join("LEFT JOIN results AS r ON r.participant_id = p.id").
		GroupExpr("s.id, s.name").
		OrderExpr("total_points DESC, s.name ASC, s.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate school standings: %w", err)
	}
	return rows, nil
}

func (r *Impl) EventResultRows(ctx context.Context, db bun.IDB) ([]EventResultRow, error) {
	db = r.resolveDB(db)
	rows := []EventResultRow{}
	err := db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("r.id AS result_id").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("e.name AS event_name").
		ColumnExpr(`e."date" AS event_date`).
		ColumnExpr("e.location AS location").
		ColumnExpr("sp.name AS sport_name").
		ColumnExpr("t.first_name AS teacher_first_name").
		ColumnExpr("t.last_name AS teacher_last_name").
		ColumnExpr("p.id AS participant_id").
		ColumnExpr("p.first_name AS participant_first_name").
		ColumnExpr("p.last_name AS participant_last_name").
		ColumnExpr("sc.name AS school_name").
		ColumnExpr("c.name AS category_name").
		ColumnExpr(`r."time" AS "time"`).
		ColumnExpr("r.points AS points").
		ColumnExpr("r.place AS place").
		Join("LEFT JOIN events AS e ON e.id = r.event_id").
		Join("LEFT JOIN sports AS sp ON sp.id = e.sport_id").
		Join("LEFT JOIN teachers AS t ON t.id = e.responsible_id").
		Join("LEFT JOIN participants AS p ON p.id = r.participant_id").
		Join("LEFT JOIN schools AS sc ON sc.id = p.school_id").
		Join("LEFT JOIN categories AS c ON c.id = r.category_id").
		OrderExpr(`e."date" DESC, e.id ASC, r.place ASC, r.id ASC`).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load event results: %w", err)
	}
	return rows, nil
}

package registrydb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type tableSpec struct {
	model       any
	foreignKeys []string
	indexes     map[string][]string
}

// schemaTables lists the registry tables in dependency order.
func schemaTables() []tableSpec {
	return []tableSpec{
		{model: (*School)(nil)},
		{
			model:       (*Teacher)(nil),
			foreignKeys: []string{`("school_id") REFERENCES "schools" ("id") ON DELETE RESTRICT`},
			indexes:     map[string][]string{"idx_teachers_school": {"school_id"}},
		},
		{
			model: (*Class)(nil),
			foreignKeys: []string{
				`("school_id") REFERENCES "schools" ("id") ON DELETE RESTRICT`,
				`("teacher_id") REFERENCES "teachers" ("id") ON DELETE RESTRICT`,
			},
		},
		{
			model: (*Participant)(nil),
			foreignKeys: []string{
				`("school_id") REFERENCES "schools" ("id") ON DELETE RESTRICT`,
				`("class_id") REFERENCES "classes" ("id") ON DELETE RESTRICT`,
			},
			indexes: map[string][]string{
				"idx_participants_school": {"school_id"},
				"idx_participants_class":  {"class_id"},
			},
		},
		{model: (*Sport)(nil)},
		{
			model:       (*Rank)(nil),
			foreignKeys: []string{`("sport_id") REFERENCES "sports" ("id") ON DELETE RESTRICT`},
		},
		{
			model: (*ParticipantRank)(nil),
			foreignKeys: []string{
				`("participant_id") REFERENCES "participants" ("id") ON DELETE CASCADE`,
				`("rank_id") REFERENCES "ranks" ("id") ON DELETE CASCADE`,
			},
		},
		{model: (*Category)(nil)},
		{
			model: (*Event)(nil),
			foreignKeys: []string{
				`("sport_id") REFERENCES "sports" ("id") ON DELETE RESTRICT`,
				`("responsible_id") REFERENCES "teachers" ("id") ON DELETE RESTRICT`,
			},
			indexes: map[string][]string{"idx_events_date": {"date"}},
		},
		{
			model: (*EventParticipant)(nil),
			foreignKeys: []string{
				`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`,
				`("participant_id") REFERENCES "participants" ("id") ON DELETE CASCADE`,
			},
			indexes: map[string][]string{"idx_event_participants_participant": {"participant_id"}},
		},
		{
			model: (*Result)(nil),
			foreignKeys: []string{
				`("event_id") REFERENCES "events" ("id") ON DELETE RESTRICT`,
				`("participant_id") REFERENCES "participants" ("id") ON DELETE RESTRICT`,
				`("category_id") REFERENCES "categories" ("id") ON DELETE RESTRICT`,
				`("event_id", "participant_id") REFERENCES "event_participants" ("event_id", "participant_id") ON DELETE RESTRICT`,
			},
			indexes: map[string][]string{
				"idx_results_event":       {"event_id"},
				"idx_results_participant": {"participant_id"},
			},
		},
		{
			model: (*SchoolPoint)(nil),
			foreignKeys: []string{
				`("school_id") REFERENCES "schools" ("id") ON DELETE CASCADE`,
				`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`,
			},
		},
	}
}

// CreateSchema creates every registry table with its constraints and indexes.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, t := range schemaTables() {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", t.model, err)
		}
		for name, cols := range t.indexes {
			_, err := db.NewCreateIndex().Model(t.model).Index(name).Column(cols...).IfNotExists().Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", name, err)
			}
		}
	}
	return nil
}

// DropSchema drops every registry table in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	tables := schemaTables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i].model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", tables[i].model, err)
		}
	}
	return nil
}

package standingsservice

import (
	"context"

	standingsdb "github.com/Black-And-White-Club/sportsday/app/modules/standings/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Standings Repo
// ------------------------

type FakeStandingsRepo struct {
	trace []string

	SchoolStandingsFunc func(ctx context.Context, db bun.IDB) ([]standingsdb.StandingRow, error)
	EventResultRowsFunc func(ctx context.Context, db bun.IDB) ([]standingsdb.EventResultRow, error)
}

func NewFakeStandingsRepo() *FakeStandingsRepo {
	return &FakeStandingsRepo{
		trace: []string{},
	}
}

func (f *FakeStandingsRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStandingsRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStandingsRepo) SchoolStandings(ctx context.Context, db bun.IDB) ([]standingsdb.StandingRow, error) {
	f.record("SchoolStandings")
	if f.SchoolStandingsFunc != nil {
		return f.SchoolStandingsFunc(ctx, db)
	}
	return []standingsdb.StandingRow{}, nil
}

func (f *FakeStandingsRepo) EventResultRows(ctx context.Context, db bun.IDB) ([]standingsdb.EventResultRow, error) {
	f.record("EventResultRows")
	if f.EventResultRowsFunc != nil {
		return f.EventResultRowsFunc(ctx, db)
	}
	return []standingsdb.EventResultRow{}, nil
}

var _ standingsdb.Repository = (*FakeStandingsRepo)(nil)

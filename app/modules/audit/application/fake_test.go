package auditservice

import (
	"context"

	auditdb "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Audit Repo
// ------------------------

type FakeAuditRepo struct {
	trace []string

	InsertFunc func(ctx context.Context, db bun.IDB, entry *auditdb.Log) error
	ListFunc   func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Log, error)
}

func NewFakeAuditRepo() *FakeAuditRepo {
	return &FakeAuditRepo{
		trace: []string{},
	}
}

func (f *FakeAuditRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAuditRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAuditRepo) Insert(ctx context.Context, db bun.IDB, entry *auditdb.Log) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeAuditRepo) List(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Log, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, limit)
	}
	return []auditdb.Log{}, nil
}

var _ auditdb.Repository = (*FakeAuditRepo)(nil)

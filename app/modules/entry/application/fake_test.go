package entryservice

import (
	"context"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Store
// ------------------------

type FakeStore struct {
	trace []string

	GetEventFunc           func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Event, error)
	CreateEventFunc        func(ctx context.Context, db bun.IDB, e *registrydb.Event) error
	GetParticipantFunc     func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Participant, error)
	GetCategoryFunc        func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Category, error)
	IsRegisteredFunc       func(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error)
	CreateRegistrationFunc func(ctx context.Context, db bun.IDB, ep *registrydb.EventParticipant) error
	CreateResultFunc       func(ctx context.Context, db bun.IDB, r *registrydb.Result) error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		trace: []string{},
	}
}

func (f *FakeStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStore) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Store Interface Implementation ---

func (f *FakeStore) GetEvent(ctx context.Context, db bun.IDB, id int64) (*registrydb.Event, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, db, id)
	}
	return &registrydb.Event{ID: id}, nil
}

func (f *FakeStore) CreateEvent(ctx context.Context, db bun.IDB, e *registrydb.Event) error {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, db, e)
	}
	e.ID = 1
	return nil
}

func (f *FakeStore) GetParticipant(ctx context.Context, db bun.IDB, id int64) (*registrydb.Participant, error) {
	f.record("GetParticipant")
	if f.GetParticipantFunc != nil {
		return f.GetParticipantFunc(ctx, db, id)
	}
	return &registrydb.Participant{ID: id}, nil
}

func (f *FakeStore) GetCategory(ctx context.Context, db bun.IDB, id int64) (*registrydb.Category, error) {
	f.record("GetCategory")
	if f.GetCategoryFunc != nil {
		return f.GetCategoryFunc(ctx, db, id)
	}
	return nil, sportserr.NotFound("category", id)
}

func (f *FakeStore) IsRegistered(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error) {
	f.record("IsRegistered")
	if f.IsRegisteredFunc != nil {
		return f.IsRegisteredFunc(ctx, db, eventID, participantID)
	}
	return false, nil
}

func (f *FakeStore) CreateRegistration(ctx context.Context, db bun.IDB, ep *registrydb.EventParticipant) error {
	f.record("CreateRegistration")
	if f.CreateRegistrationFunc != nil {
		return f.CreateRegistrationFunc(ctx, db, ep)
	}
	return nil
}

func (f *FakeStore) CreateResult(ctx context.Context, db bun.IDB, r *registrydb.Result) error {
	f.record("CreateResult")
	if f.CreateResultFunc != nil {
		return f.CreateResultFunc(ctx, db, r)
	}
	r.ID = 1
	return nil
}

var _ Store = (*FakeStore)(nil)
var _ Store = (*registrydb.Repository)(nil)

type recordingAuditor struct {
	actions []string
}

func (r *recordingAuditor) Record(_ context.Context, action string) {
	r.actions = append(r.actions, action)
}

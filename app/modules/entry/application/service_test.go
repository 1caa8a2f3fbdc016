package entryservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/sportsday/app/database/databasetest"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var fixedNow = time.Date(2024, 4, 20, 14, 30, 0, 0, time.UTC)

func newFakeService(store *FakeStore) (*EntryService, *recordingAuditor) {
	audit := &recordingAuditor{}
	svc := NewEntryService(store, audit, slog.Default(), observability.NewNoop(), nil, nil).
		WithClock(func() time.Time { return fixedNow })
	return svc, audit
}

func TestRegisterForEvent(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*FakeStore)
		date      registrydb.Date
		wantErr   error
		wantTrace []string
		wantDate  string
	}{
		{
			name:      "registers with today's date",
			wantTrace: []string{"GetEvent", "GetParticipant", "IsRegistered", "CreateRegistration"},
			wantDate:  "2024-04-20",
		},
		{
			name:      "keeps an explicit date",
			date:      registrydb.NewDate(2024, 4, 1),
			wantTrace: []string{"GetEvent", "GetParticipant", "IsRegistered", "CreateRegistration"},
			wantDate:  "2024-04-01",
		},
		{
			name: "missing event",
			setup: func(f *FakeStore) {
				f.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Event, error) {
					return nil, sportserr.NotFound("event", id)
				}
			},
			wantErr:   sportserr.ErrNotFound,
			wantTrace: []string{"GetEvent"},
		},
		{
			name: "missing participant",
			setup: func(f *FakeStore) {
				f.GetParticipantFunc = func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Participant, error) {
					return nil, sportserr.NotFound("participant", id)
				}
			},
			wantErr:   sportserr.ErrNotFound,
			wantTrace: []string{"GetEvent", "GetParticipant"},
		},
		{
			name: "already registered",
			setup: func(f *FakeStore) {
				f.IsRegisteredFunc = func(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error) {
					return true, nil
				}
			},
			wantErr:   sportserr.ErrDuplicateRegistration,
			wantTrace: []string{"GetEvent", "GetParticipant", "IsRegistered"},
		},
		{
			name: "insert reports duplicate",
			setup: func(f *FakeStore) {
				f.CreateRegistrationFunc = func(ctx context.Context, db bun.IDB, ep *registrydb.EventParticipant) error {
					return &sportserr.DuplicateError{Entity: "event registration"}
				}
			},
			wantErr:   sportserr.ErrDuplicateRegistration,
			wantTrace: []string{"GetEvent", "GetParticipant", "IsRegistered", "CreateRegistration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewFakeStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			svc, audit := newFakeService(store)

			ep, err := svc.RegisterForEvent(context.Background(), 10, 20, tt.date)
			assert.Equal(t, tt.wantTrace, store.Trace())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, audit.actions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), ep.EventID)
			assert.Equal(t, int64(20), ep.ParticipantID)
			assert.Equal(t, tt.wantDate, ep.RegistrationDate.String())
			assert.Equal(t, []string{"registered participant 20 for event 10"}, audit.actions)
		})
	}
}

func TestRecordResult(t *testing.T) {
	valid := ResultInput{EventID: 1, ParticipantID: 2, CategoryID: 3, Time: "0:00:13.4", Points: 10, Place: 1}

	tests := []struct {
		name      string
		in        func(ResultInput) ResultInput
		setup     func(*FakeStore)
		wantErr   error
		wantField string
		wantTrace []string
	}{
		{
			name: "records a registered participant",
			setup: func(f *FakeStore) {
				f.IsRegisteredFunc = func(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error) {
					return true, nil
				}
			},
			wantTrace: []string{"IsRegistered", "CreateResult"},
		},
		{
			name:      "not registered",
			wantErr:   sportserr.ErrNotRegistered,
			wantTrace: []string{"IsRegistered"},
		},
		{
			name:      "negative points",
			in:        func(in ResultInput) ResultInput { in.Points = -1; return in },
			wantErr:   sportserr.ErrValidation,
			wantField: "points",
			wantTrace: []string{},
		},
		{
			name:      "place zero",
			in:        func(in ResultInput) ResultInput { in.Place = 0; return in },
			wantErr:   sportserr.ErrValidation,
			wantField: "place",
			wantTrace: []string{},
		},
		{
			name:      "minutes out of range",
			in:        func(in ResultInput) ResultInput { in.Time = "0:75:00"; return in },
			wantErr:   sportserr.ErrValidation,
			wantField: "time",
			wantTrace: []string{},
		},
		{
			name:      "two components",
			in:        func(in ResultInput) ResultInput { in.Time = "12:30"; return in },
			wantErr:   sportserr.ErrValidation,
			wantField: "time",
			wantTrace: []string{},
		},
		{
			name: "missing category",
			setup: func(f *FakeStore) {
				f.IsRegisteredFunc = func(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error) {
					return true, nil
				}
				f.CreateResultFunc = func(ctx context.Context, db bun.IDB, r *registrydb.Result) error {
					return sportserr.NotFound("category", r.CategoryID)
				}
			},
			wantErr:   sportserr.ErrNotFound,
			wantTrace: []string{"IsRegistered", "CreateResult"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewFakeStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			svc, audit := newFakeService(store)
			in := valid
			if tt.in != nil {
				in = tt.in(in)
			}

			res, err := svc.RecordResult(context.Background(), in)
			assert.Equal(t, tt.wantTrace, store.Trace())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				if tt.wantField != "" {
					var ve *sportserr.ValidationError
					require.True(t, errors.As(err, &ve))
					assert.Equal(t, tt.wantField, ve.Field)
				}
				assert.Empty(t, audit.actions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 13*time.Second+400*time.Millisecond, res.Time.Duration())
			assert.Equal(t, 10, res.Points)
			assert.Len(t, audit.actions, 1)
		})
	}
}

func TestCreateEventWithRosterSequencing(t *testing.T) {
	store := NewFakeStore()
	store.GetCategoryFunc = func(ctx context.Context, db bun.IDB, id int64) (*registrydb.Category, error) {
		return &registrydb.Category{ID: id}, nil
	}
	svc, audit := newFakeService(store)

	roster, err := svc.CreateEventWithRoster(context.Background(), &registrydb.Event{Name: "Relay"}, []int64{4, 5}, []int64{9})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CreateEvent",
		"GetCategory",
		"GetEvent", "GetParticipant", "IsRegistered", "CreateRegistration",
		"GetEvent", "GetParticipant", "IsRegistered", "CreateRegistration",
	}, store.Trace())
	require.Len(t, roster.Registrations, 2)
	assert.Equal(t, "2024-04-20", roster.Registrations[0].RegistrationDate.String())
	assert.Equal(t, []string{"created event 1 with 2 participants"}, audit.actions)

	_, err = svc.CreateEventWithRoster(context.Background(), nil, nil, nil)
	assert.True(t, errors.Is(err, sportserr.ErrValidation))
}

// --- behaviour against a real store ---

type fixture struct {
	db      *bun.DB
	repo    *registrydb.Repository
	svc     *EntryService
	teacher *registrydb.Teacher
	sport   *registrydb.Sport
	event   *registrydb.Event
	cat     *registrydb.Category
	p1, p2  *registrydb.Participant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := databasetest.NewSQLite(t, registrydb.CreateSchema)
	repo := registrydb.NewRepository(db)
	f := &fixture{db: db, repo: repo}

	school := &registrydb.School{Name: "North High"}
	require.NoError(t, repo.Schools.Create(ctx, nil, school))
	f.teacher = &registrydb.Teacher{SchoolID: school.ID, FirstName: "Ada", LastName: "Brook"}
	require.NoError(t, repo.Teachers.Create(ctx, nil, f.teacher))
	class := &registrydb.Class{SchoolID: school.ID, Name: "7A"}
	require.NoError(t, repo.Classes.Create(ctx, nil, class))
	f.p1 = &registrydb.Participant{SchoolID: school.ID, ClassID: class.ID, FirstName: "Lena", LastName: "Moss",
		BirthDate: registrydb.NewDate(2011, 3, 4), Gender: registrydb.GenderFemale}
	require.NoError(t, repo.Participants.Create(ctx, nil, f.p1))
	f.p2 = &registrydb.Participant{SchoolID: school.ID, ClassID: class.ID, FirstName: "Omar", LastName: "Reed",
		BirthDate: registrydb.NewDate(2010, 9, 12), Gender: registrydb.GenderMale}
	require.NoError(t, repo.Participants.Create(ctx, nil, f.p2))
	f.sport = &registrydb.Sport{Name: "Sprint"}
	require.NoError(t, repo.Sports.Create(ctx, nil, f.sport))
	f.cat = &registrydb.Category{Name: "Open", MinAge: 10, MaxAge: 15}
	require.NoError(t, repo.Categories.Create(ctx, nil, f.cat))
	f.event = &registrydb.Event{SportID: f.sport.ID, ResponsibleID: f.teacher.ID, Name: "100m", Date: registrydb.NewDate(2024, 5, 1)}
	require.NoError(t, repo.Events.Create(ctx, nil, f.event))

	f.svc = NewEntryService(repo, nil, slog.Default(), observability.NewNoop(), nil, db).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func (f *fixture) count(t *testing.T, model any) int {
	t.Helper()
	n, err := f.db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRegisterTwiceLeavesOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterForEvent(ctx, f.event.ID, f.p1.ID, registrydb.Date{})
	require.NoError(t, err)

	_, err = f.svc.RegisterForEvent(ctx, f.event.ID, f.p1.ID, registrydb.Date{})
	var dup *sportserr.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, f.event.ID, dup.EventID)

	assert.Equal(t, 1, f.count(t, (*registrydb.EventParticipant)(nil)))

	_, err = f.svc.RegisterForEvent(ctx, 999, f.p1.ID, registrydb.Date{})
	assert.True(t, errors.Is(err, sportserr.ErrNotFound), "got %v", err)
}

func TestRecordResultRequiresRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := ResultInput{EventID: f.event.ID, ParticipantID: f.p1.ID, CategoryID: f.cat.ID, Time: "0:00:13", Points: 10, Place: 1}

	_, err := f.svc.RecordResult(ctx, in)
	assert.True(t, errors.Is(err, sportserr.ErrNotRegistered), "got %v", err)
	assert.Equal(t, 0, f.count(t, (*registrydb.Result)(nil)))

	_, err = f.svc.RegisterForEvent(ctx, f.event.ID, f.p1.ID, registrydb.Date{})
	require.NoError(t, err)

	res, err := f.svc.RecordResult(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, 1, f.count(t, (*registrydb.Result)(nil)))

	stored, err := f.repo.Results.Get(ctx, nil, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 13*time.Second, stored.Time.Duration())

	in.CategoryID = 999
	_, err = f.svc.RecordResult(ctx, in)
	assert.True(t, errors.Is(err, sportserr.ErrNotFound), "got %v", err)
	assert.Equal(t, 1, f.count(t, (*registrydb.Result)(nil)))
}

func TestCreateEventWithRosterIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eventsBefore := f.count(t, (*registrydb.Event)(nil))

	newEvent := func() *registrydb.Event {
		return &registrydb.Event{SportID: f.sport.ID, ResponsibleID: f.teacher.ID, Name: "Relay", Date: registrydb.NewDate(2024, 6, 1)}
	}

	_, err := f.svc.CreateEventWithRoster(ctx, newEvent(), []int64{f.p1.ID, 4242}, []int64{f.cat.ID})
	assert.True(t, errors.Is(err, sportserr.ErrNotFound), "got %v", err)
	assert.Equal(t, eventsBefore, f.count(t, (*registrydb.Event)(nil)))
	assert.Equal(t, 0, f.count(t, (*registrydb.EventParticipant)(nil)))

	_, err = f.svc.CreateEventWithRoster(ctx, newEvent(), []int64{f.p1.ID}, []int64{777})
	assert.True(t, errors.Is(err, sportserr.ErrNotFound), "got %v", err)
	assert.Equal(t, eventsBefore, f.count(t, (*registrydb.Event)(nil)))

	_, err = f.svc.CreateEventWithRoster(ctx, newEvent(), []int64{f.p1.ID, f.p1.ID}, nil)
	assert.True(t, errors.Is(err, sportserr.ErrDuplicateRegistration), "got %v", err)
	assert.Equal(t, 0, f.count(t, (*registrydb.EventParticipant)(nil)))

	roster, err := f.svc.CreateEventWithRoster(ctx, newEvent(), []int64{f.p1.ID, f.p2.ID}, []int64{f.cat.ID})
	require.NoError(t, err)
	assert.NotZero(t, roster.Event.ID)
	require.Len(t, roster.Registrations, 2)
	assert.Equal(t, "2024-04-20", roster.Registrations[1].RegistrationDate.String())
	assert.Equal(t, eventsBefore+1, f.count(t, (*registrydb.Event)(nil)))
	assert.Equal(t, 2, f.count(t, (*registrydb.EventParticipant)(nil)))
}

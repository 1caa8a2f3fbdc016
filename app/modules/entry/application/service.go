package entryservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/operations"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Auditor receives one entry per committed operation.
type Auditor interface {
	Record(ctx context.Context, action string)
}

type noopAuditor struct{}

func (noopAuditor) Record(context.Context, string) {}

// EntryService implements the Service interface.
type EntryService struct {
	store  Store
	audit  Auditor
	runner *operations.Runner
	now    func() time.Time
}

// NewEntryService creates a new EntryService.
func NewEntryService(
	store Store,
	audit Auditor,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = noopAuditor{}
	}
	return &EntryService{
		store: store,
		audit: audit,
		runner: &operations.Runner{
			Service: "entry",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
		now: time.Now,
	}
}

// WithClock replaces the clock used for registration dates.
func (s *EntryService) WithClock(now func() time.Time) *EntryService {
	s.now = now
	return s
}

func (s *EntryService) today() registrydb.Date {
	return registrydb.DateOf(s.now())
}

// RegisterForEvent registers participantID for eventID.
func (s *EntryService) RegisterForEvent(ctx context.Context, eventID, participantID int64, date registrydb.Date) (*registrydb.EventParticipant, error) {
	if date.IsZero() {
		date = s.today()
	}

	ep, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "RegisterForEvent", fmt.Sprintf("%d/%d", eventID, participantID),
		func(ctx context.Context) (operations.Result[*registrydb.EventParticipant], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[*registrydb.EventParticipant], error) {
				ep, err := s.register(ctx, db, eventID, participantID, date)
				if err != nil {
					return operations.Classify[*registrydb.EventParticipant](err)
				}
				return operations.Success(ep), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("registered participant %d for event %d", participantID, eventID))
	return ep, nil
}

// register checks both ids and the existing pair, then inserts the
// registration. It runs inside the caller's transaction.
func (s *EntryService) register(ctx context.Context, db bun.IDB, eventID, participantID int64, date registrydb.Date) (*registrydb.EventParticipant, error) {
	if _, err := s.store.GetEvent(ctx, db, eventID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetParticipant(ctx, db, participantID); err != nil {
		return nil, err
	}

	registered, err := s.store.IsRegistered(ctx, db, eventID, participantID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, &sportserr.DuplicateRegistrationError{EventID: eventID, ParticipantID: participantID}
	}

	ep := &registrydb.EventParticipant{
		EventID:          eventID,
		ParticipantID:    participantID,
		RegistrationDate: date,
	}
	if err := s.store.CreateRegistration(ctx, db, ep); err != nil {
		if errors.Is(err, sportserr.ErrDuplicate) {
			return nil, &sportserr.DuplicateRegistrationError{EventID: eventID, ParticipantID: participantID}
		}
		return nil, err
	}
	return ep, nil
}

// RecordResult validates in, requires a registration for the pair and
// inserts exactly one Result.
func (s *EntryService) RecordResult(ctx context.Context, in ResultInput) (*registrydb.Result, error) {
	res, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "RecordResult", fmt.Sprintf("%d/%d", in.EventID, in.ParticipantID),
		func(ctx context.Context) (operations.Result[*registrydb.Result], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[*registrydb.Result], error) {
				res, err := s.recordResult(ctx, db, in)
				if err != nil {
					return operations.Classify[*registrydb.Result](err)
				}
				return operations.Success(res), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("recorded result %d for participant %d in event %d", res.ID, in.ParticipantID, in.EventID))
	return res, nil
}

func (s *EntryService) recordResult(ctx context.Context, db bun.IDB, in ResultInput) (*registrydb.Result, error) {
	if in.Points < 0 {
		return nil, sportserr.Invalid("points", "must be >= 0")
	}
	if in.Place < 1 {
		return nil, sportserr.Invalid("place", "must be >= 1")
	}
	elapsed, err := registrydb.ParseRaceTime(in.Time)
	if err != nil {
		return nil, err
	}

	registered, err := s.store.IsRegistered(ctx, db, in.EventID, in.ParticipantID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, &sportserr.NotRegisteredError{EventID: in.EventID, ParticipantID: in.ParticipantID}
	}

	res := &registrydb.Result{
		EventID:       in.EventID,
		ParticipantID: in.ParticipantID,
		CategoryID:    in.CategoryID,
		Time:          elapsed,
		Points:        in.Points,
		Place:         in.Place,
	}
	if err := s.store.CreateResult(ctx, db, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateEventWithRoster creates event, checks every category id and
// registers every participant in one transaction.
func (s *EntryService) CreateEventWithRoster(ctx context.Context, event *registrydb.Event, participantIDs, categoryIDs []int64) (*Roster, error) {
	if event == nil {
		return nil, sportserr.Invalid("event", "is required")
	}
	date := s.today()

	roster, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "CreateEventWithRoster", event.Name,
		func(ctx context.Context) (operations.Result[*Roster], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[*Roster], error) {
				roster, err := s.createEventWithRoster(ctx, db, event, participantIDs, categoryIDs, date)
				if err != nil {
					return operations.Classify[*Roster](err)
				}
				return operations.Success(roster), nil
			})
		}))
	if err != nil {
		// The insert may have assigned an id before the rollback.
		event.ID = 0
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("created event %d with %d participants", roster.Event.ID, len(roster.Registrations)))
	return roster, nil
}

func (s *EntryService) createEventWithRoster(
	ctx context.Context,
	db bun.IDB,
	event *registrydb.Event,
	participantIDs, categoryIDs []int64,
	date registrydb.Date,
) (*Roster, error) {
	if err := s.store.CreateEvent(ctx, db, event); err != nil {
		return nil, err
	}
	for _, id := range categoryIDs {
		if _, err := s.store.GetCategory(ctx, db, id); err != nil {
			return nil, err
		}
	}

	roster := &Roster{Event: event, Registrations: make([]registrydb.EventParticipant, 0, len(participantIDs))}
	for _, id := range participantIDs {
		ep, err := s.register(ctx, db, event.ID, id, date)
		if err != nil {
			return nil, err
		}
		roster.Registrations = append(roster.Registrations, *ep)
	}
	return roster, nil
}

var _ Service = (*EntryService)(nil)

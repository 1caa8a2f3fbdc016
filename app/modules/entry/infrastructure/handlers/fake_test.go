package entryhandlers

import (
	"context"

	entryservice "github.com/Black-And-White-Club/sportsday/app/modules/entry/application"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
)

// FakeService is a programmable fake for entryservice.Service.
type FakeService struct {
	trace []string

	RegisterForEventFunc      func(ctx context.Context, eventID, participantID int64, date registrydb.Date) (*registrydb.EventParticipant, error)
	RecordResultFunc          func(ctx context.Context, in entryservice.ResultInput) (*registrydb.Result, error)
	CreateEventWithRosterFunc func(ctx context.Context, event *registrydb.Event, participantIDs, categoryIDs []int64) (*entryservice.Roster, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) RegisterForEvent(ctx context.Context, eventID, participantID int64, date registrydb.Date) (*registrydb.EventParticipant, error) {
	f.record("RegisterForEvent")
	if f.RegisterForEventFunc != nil {
		return f.RegisterForEventFunc(ctx, eventID, participantID, date)
	}
	return &registrydb.EventParticipant{EventID: eventID, ParticipantID: participantID, RegistrationDate: date}, nil
}

func (f *FakeService) RecordResult(ctx context.Context, in entryservice.ResultInput) (*registrydb.Result, error) {
	f.record("RecordResult")
	if f.RecordResultFunc != nil {
		return f.RecordResultFunc(ctx, in)
	}
	return &registrydb.Result{ID: 1, EventID: in.EventID, ParticipantID: in.ParticipantID, CategoryID: in.CategoryID}, nil
}

func (f *FakeService) CreateEventWithRoster(ctx context.Context, event *registrydb.Event, participantIDs, categoryIDs []int64) (*entryservice.Roster, error) {
	f.record("CreateEventWithRoster")
	if f.CreateEventWithRosterFunc != nil {
		return f.CreateEventWithRosterFunc(ctx, event, participantIDs, categoryIDs)
	}
	return &entryservice.Roster{Event: event}, nil
}

var _ entryservice.Service = (*FakeService)(nil)

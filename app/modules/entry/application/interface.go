package entryservice

import (
	"context"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Store is the slice of the registry the entry operations sequence.
type Store interface {
	GetEvent(ctx context.Context, db bun.IDB, id int64) (*registrydb.Event, error)
	CreateEvent(ctx context.Context, db bun.IDB, e *registrydb.Event) error
	GetParticipant(ctx context.Context, db bun.IDB, id int64) (*registrydb.Participant, error)
	GetCategory(ctx context.Context, db bun.IDB, id int64) (*registrydb.Category, error)
	IsRegistered(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error)
	CreateRegistration(ctx context.Context, db bun.IDB, ep *registrydb.EventParticipant) error
	CreateResult(ctx context.Context, db bun.IDB, r *registrydb.Result) error
}

// Service defines the entry operations.
type Service interface {
	// RegisterForEvent registers a participant for an event. A zero date
	// means today.
	RegisterForEvent(ctx context.Context, eventID, participantID int64, date registrydb.Date) (*registrydb.EventParticipant, error)

	// RecordResult records a result for a registered participant.
	RecordResult(ctx context.Context, in ResultInput) (*registrydb.Result, error)

	// CreateEventWithRoster creates an event and registers every
	// participant, all or nothing.
	CreateEventWithRoster(ctx context.Context, event *registrydb.Event, participantIDs, categoryIDs []int64) (*Roster, error)
}

// ResultInput is an unparsed result as entered by a user.
type ResultInput struct {
	EventID       int64  `json:"event_id"`
	ParticipantID int64  `json:"participant_id"`
	CategoryID    int64  `json:"category_id"`
	Time          string `json:"time"`
	Points        int    `json:"points"`
	Place         int    `json:"place"`
}

// Roster is an event together with its initial registrations.
type Roster struct {
	Event         *registrydb.Event             `json:"event"`
	Registrations []registrydb.EventParticipant `json:"registrations"`
}

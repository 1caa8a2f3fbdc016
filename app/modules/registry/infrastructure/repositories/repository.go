package registrydb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository groups the table repositories of the registry schema.
type Repository struct {
	DB bun.IDB

	Schools      *Table[School, *School]
	Classes      *Table[Class, *Class]
	Teachers     *Table[Teacher, *Teacher]
	Participants *Table[Participant, *Participant]
	Sports       *Table[Sport, *Sport]
	Ranks        *Table[Rank, *Rank]
	Categories   *Table[Category, *Category]
	Events       *Table[Event, *Event]
	Results      *Table[Result, *Result]

	ParticipantRanks  *LinkTable[ParticipantRank, *ParticipantRank]
	EventParticipants *LinkTable[EventParticipant, *EventParticipant]
	SchoolPoints      *LinkTable[SchoolPoint, *SchoolPoint]
}

// NewRepository creates a Repository whose tables default to db.
func NewRepository(db bun.IDB) *Repository {
	return &Repository{
		DB:                db,
		Schools:           NewTable[School](db),
		Classes:           NewTable[Class](db),
		Teachers:          NewTable[Teacher](db),
		Participants:      NewTable[Participant](db),
		Sports:            NewTable[Sport](db),
		Ranks:             NewTable[Rank](db),
		Categories:        NewTable[Category](db),
		Events:            NewTable[Event](db),
		Results:           NewTable[Result](db),
		ParticipantRanks:  NewLinkTable[ParticipantRank](db),
		EventParticipants: NewLinkTable[EventParticipant](db),
		SchoolPoints:      NewLinkTable[SchoolPoint](db),
	}
}

// GetEvent loads an event by id for the entry service.
func (r *Repository) GetEvent(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	return r.Events.Get(ctx, db, id)
}

// CreateEvent inserts an event inside the caller's transaction.
func (r *Repository) CreateEvent(ctx context.Context, db bun.IDB, e *Event) error {
	return r.Events.Create(ctx, db, e)
}

// GetParticipant loads a participant by id for the entry service.
func (r *Repository) GetParticipant(ctx context.Context, db bun.IDB, id int64) (*Participant, error) {
	return r.Participants.Get(ctx, db, id)
}

// GetCategory loads a category by id for the entry service.
func (r *Repository) GetCategory(ctx context.Context, db bun.IDB, id int64) (*Category, error) {
	return r.Categories.Get(ctx, db, id)
}

// IsRegistered reports whether the participant is registered for the event.
func (r *Repository) IsRegistered(ctx context.Context, db bun.IDB, eventID, participantID int64) (bool, error) {
	return r.EventParticipants.Exists(ctx, db, eventID, participantID)
}

// CreateRegistration inserts an event registration.
func (r *Repository) CreateRegistration(ctx context.Context, db bun.IDB, ep *EventParticipant) error {
	return r.EventParticipants.Create(ctx, db, ep)
}

// CreateResult inserts a result. The participant must be registered for the event.
func (r *Repository) CreateResult(ctx context.Context, db bun.IDB, res *Result) error {
	return r.Results.Create(ctx, db, res)
}

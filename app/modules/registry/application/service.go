package registryservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/operations"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Auditor receives one entry per committed mutation.
type Auditor interface {
	Record(ctx context.Context, action string)
}

type noopAuditor struct{}

func (noopAuditor) Record(context.Context, string) {}

// Service exposes CRUD for every registry entity.
type Service struct {
	Schools      *EntityService[registrydb.School, *registrydb.School]
	Classes      *EntityService[registrydb.Class, *registrydb.Class]
	Teachers     *EntityService[registrydb.Teacher, *registrydb.Teacher]
	Participants *EntityService[registrydb.Participant, *registrydb.Participant]
	Sports       *EntityService[registrydb.Sport, *registrydb.Sport]
	Ranks        *EntityService[registrydb.Rank, *registrydb.Rank]
	Categories   *EntityService[registrydb.Category, *registrydb.Category]
	Events       *EntityService[registrydb.Event, *registrydb.Event]
	Results      *EntityService[registrydb.Result, *registrydb.Result]

	ParticipantRanks  *LinkService[registrydb.ParticipantRank, *registrydb.ParticipantRank]
	EventParticipants *LinkService[registrydb.EventParticipant, *registrydb.EventParticipant]
	SchoolPoints      *LinkService[registrydb.SchoolPoint, *registrydb.SchoolPoint]
}

// NewRegistryService creates the registry services over repo.
func NewRegistryService(
	repo *registrydb.Repository,
	audit Auditor,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = noopAuditor{}
	}
	runner := &operations.Runner{
		Service: "registry",
		Logger:  logger,
		Metrics: metrics,
		Tracer:  tracer,
		DB:      db,
	}
	return &Service{
		Schools:           newEntityService(repo.Schools, runner, audit),
		Classes:           newEntityService(repo.Classes, runner, audit),
		Teachers:          newEntityService(repo.Teachers, runner, audit),
		Participants:      newEntityService(repo.Participants, runner, audit),
		Sports:            newEntityService(repo.Sports, runner, audit),
		Ranks:             newEntityService(repo.Ranks, runner, audit),
		Categories:        newEntityService(repo.Categories, runner, audit),
		Events:            newEntityService(repo.Events, runner, audit),
		Results:           newEntityService(repo.Results, runner, audit),
		ParticipantRanks:  newLinkService(repo.ParticipantRanks, runner, audit),
		EventParticipants: newLinkService(repo.EventParticipants, runner, audit),
		SchoolPoints:      newLinkService(repo.SchoolPoints, runner, audit),
	}
}

// operationName turns ("Create", "school point") into "CreateSchoolPoint".
func operationName(verb, entity string) string {
	var b strings.Builder
	b.WriteString(verb)
	for _, word := range strings.Fields(entity) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

// EntityService runs CRUD for one id-keyed entity.
type EntityService[T any, P interface {
	*T
	registrydb.Record
}] struct {
	table  *registrydb.Table[T, P]
	runner *operations.Runner
	audit  Auditor
	entity string
}

func newEntityService[T any, P interface {
	*T
	registrydb.Record
}](table *registrydb.Table[T, P], runner *operations.Runner, audit Auditor) *EntityService[T, P] {
	return &EntityService[T, P]{
		table:  table,
		runner: runner,
		audit:  audit,
		entity: P(new(T)).EntityName(),
	}
}

// Entity names the entity this service manages.
func (s *EntityService[T, P]) Entity() string { return s.entity }

// Create inserts rec and records an audit entry once the transaction commits.
func (s *EntityService[T, P]) Create(ctx context.Context, rec P) (P, error) {
	out, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Create", s.entity), "new",
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				if err := s.table.Create(ctx, db, rec); err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("created %s %d", s.entity, out.Key()))
	return out, nil
}

// Get retrieves one row by id.
func (s *EntityService[T, P]) Get(ctx context.Context, id int64) (P, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Get", s.entity), fmt.Sprint(id),
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				rec, err := s.table.Get(ctx, db, id)
				if err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
}

// List returns the rows matching f.
func (s *EntityService[T, P]) List(ctx context.Context, f registrydb.Filter) ([]T, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("List", s.entity), "",
		func(ctx context.Context) (operations.Result[[]T], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[[]T], error) {
				rows, err := s.table.List(ctx, db, f)
				if err != nil {
					return operations.Classify[[]T](err)
				}
				return operations.Success(rows), nil
			})
		}))
}

// Update replaces every field of the row identified by rec's id.
func (s *EntityService[T, P]) Update(ctx context.Context, rec P) (P, error) {
	out, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Update", s.entity), fmt.Sprint(rec.Key()),
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				if err := s.table.Update(ctx, db, rec); err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("updated %s %d", s.entity, out.Key()))
	return out, nil
}

// Delete removes the row with the given id.
func (s *EntityService[T, P]) Delete(ctx context.Context, id int64) error {
	_, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Delete", s.entity), fmt.Sprint(id),
		func(ctx context.Context) (operations.Result[int64], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[int64], error) {
				if err := s.table.Delete(ctx, db, id); err != nil {
					return operations.Classify[int64](err)
				}
				return operations.Success(id), nil
			})
		}))
	if err != nil {
		return err
	}
	s.audit.Record(ctx, fmt.Sprintf("deleted %s %d", s.entity, id))
	return nil
}

// LinkService runs create, read and delete for one composite-key entity.
type LinkService[T any, P interface {
	*T
	registrydb.LinkRecord
}] struct {
	table  *registrydb.LinkTable[T, P]
	runner *operations.Runner
	audit  Auditor
	entity string
}

func newLinkService[T any, P interface {
	*T
	registrydb.LinkRecord
}](table *registrydb.LinkTable[T, P], runner *operations.Runner, audit Auditor) *LinkService[T, P] {
	return &LinkService[T, P]{
		table:  table,
		runner: runner,
		audit:  audit,
		entity: P(new(T)).EntityName(),
	}
}

// Entity names the entity this service manages.
func (s *LinkService[T, P]) Entity() string { return s.entity }

func pair(a, b int64) string { return fmt.Sprintf("(%d, %d)", a, b) }

// Create inserts rec. A second row with the same key pair is a duplicate.
func (s *LinkService[T, P]) Create(ctx context.Context, rec P) (P, error) {
	a, b := rec.KeyValues()
	out, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Create", s.entity), pair(a, b),
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				if err := s.table.Create(ctx, db, rec); err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("created %s %s", s.entity, pair(a, b)))
	return out, nil
}

// Get retrieves the row keyed by (a, b).
func (s *LinkService[T, P]) Get(ctx context.Context, a, b int64) (P, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Get", s.entity), pair(a, b),
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				rec, err := s.table.Get(ctx, db, a, b)
				if err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
}

// List returns the rows matching f.
func (s *LinkService[T, P]) List(ctx context.Context, f registrydb.Filter) ([]T, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("List", s.entity), "",
		func(ctx context.Context) (operations.Result[[]T], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[[]T], error) {
				rows, err := s.table.List(ctx, db, f)
				if err != nil {
					return operations.Classify[[]T](err)
				}
				return operations.Success(rows), nil
			})
		}))
}

// Update overwrites the non-key fields of the row keyed like rec.
func (s *LinkService[T, P]) Update(ctx context.Context, rec P) (P, error) {
	a, b := rec.KeyValues()
	out, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Update", s.entity), pair(a, b),
		func(ctx context.Context) (operations.Result[P], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[P], error) {
				if err := s.table.Update(ctx, db, rec); err != nil {
					return operations.Classify[P](err)
				}
				return operations.Success(rec), nil
			})
		}))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, fmt.Sprintf("updated %s %s", s.entity, pair(a, b)))
	return out, nil
}

// Delete removes the row keyed by (a, b).
func (s *LinkService[T, P]) Delete(ctx context.Context, a, b int64) error {
	_, err := operations.Unwrap(operations.WithTelemetry(s.runner, ctx, operationName("Delete", s.entity), pair(a, b),
		func(ctx context.Context) (operations.Result[string], error) {
			return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[string], error) {
				if err := s.table.Delete(ctx, db, a, b); err != nil {
					return operations.Classify[string](err)
				}
				return operations.Success(pair(a, b)), nil
			})
		}))
	if err != nil {
		return err
	}
	s.audit.Record(ctx, fmt.Sprintf("deleted %s %s", s.entity, pair(a, b)))
	return nil
}

package auditservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	auditdb "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/operations"
	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const defaultListLimit = 100

// Service records and lists audit entries.
type Service interface {
	// Record appends an entry for action. It never fails the caller.
	Record(ctx context.Context, action string)

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]auditdb.Log, error)

	// Append writes a manually entered log line and reports any failure.
	Append(ctx context.Context, in AppendInput) (*auditdb.Log, error)
}

// AppendInput is a hand-written log entry. A nil UserID falls back to the
// actor in the context.
type AppendInput struct {
	Action string `json:"action"`
	UserID *int64 `json:"user_id,omitempty"`
}

type actorKey struct{}

// WithActor marks teacherID as the actor of operations run with ctx.
func WithActor(ctx context.Context, teacherID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, teacherID)
}

// ActorFrom returns the actor stored by WithActor, if any.
func ActorFrom(ctx context.Context) *int64 {
	id, ok := ctx.Value(actorKey{}).(int64)
	if !ok {
		return nil
	}
	return &id
}

// AuditService implements the Service interface.
type AuditService struct {
	repo   auditdb.Repository
	runner *operations.Runner
	now    func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(
	repo auditdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		repo: repo,
		runner: &operations.Runner{
			Service: "audit",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
		now: time.Now,
	}
}

// Record writes the entry outside any caller transaction. An actor that no
// longer exists is dropped rather than losing the entry.
func (s *AuditService) Record(ctx context.Context, action string) {
	entry := &auditdb.Log{
		Action:    action,
		UserID:    ActorFrom(ctx),
		Timestamp: s.now().UTC(),
	}

	err := s.repo.Insert(ctx, s.db(), entry)
	if err != nil && entry.UserID != nil && errors.Is(err, sportserr.ErrNotFound) {
		entry.UserID = nil
		err = s.repo.Insert(ctx, s.db(), entry)
	}
	if err != nil {
		s.runner.Logger.WarnContext(ctx, "Failed to write audit entry",
			observability.CorrelationID(ctx),
			observability.String("action", action),
			observability.Error(err),
		)
		if s.runner.Metrics != nil {
			s.runner.Metrics.RecordOperationFailure(ctx, "Record", s.runner.Service)
		}
	}
}

// List returns up to limit entries, newest first. A non-positive limit
// defaults to 100.
func (s *AuditService) List(ctx context.Context, limit int) ([]auditdb.Log, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "ListLogs", "", func(ctx context.Context) (operations.Result[[]auditdb.Log], error) {
		return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[[]auditdb.Log], error) {
			entries, err := s.repo.List(ctx, db, limit)
			if err != nil {
				return operations.Classify[[]auditdb.Log](err)
			}
			return operations.Success(entries), nil
		})
	}))
}

// Append validates and stores a manually entered entry. Unlike Record, an
// unknown teacher is reported as NotFound instead of being dropped.
func (s *AuditService) Append(ctx context.Context, in AppendInput) (*auditdb.Log, error) {
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return nil, sportserr.Invalid("action", "is required")
	}
	if n := utf8.RuneCountInString(action); n > auditdb.MaxActionLength {
		return nil, sportserr.Invalid("action", "must be at most %d characters", auditdb.MaxActionLength)
	}
	userID := in.UserID
	if userID == nil {
		userID = ActorFrom(ctx)
	}
	if userID != nil && *userID <= 0 {
		return nil, sportserr.Invalid("user_id", "must reference an existing teacher")
	}

	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "AppendLog", action, func(ctx context.Context) (operations.Result[*auditdb.Log], error) {
		return operations.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[*auditdb.Log], error) {
			entry := &auditdb.Log{Action: action, UserID: userID, Timestamp: s.now().UTC()}
			if err := s.repo.Insert(ctx, db, entry); err != nil {
				return operations.Classify[*auditdb.Log](err)
			}
			return operations.Success(entry), nil
		})
	}))
}

func (s *AuditService) db() bun.IDB {
	if s.runner.DB == nil {
		return nil
	}
	return s.runner.DB
}

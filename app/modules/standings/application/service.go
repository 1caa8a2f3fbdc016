package standingsservice

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strings"

	standingsdb "github.com/Black-And-White-Club/sportsday/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/app/shared/operations"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Service defines the read-only reports.
type Service interface {
	SchoolStandings(ctx context.Context) ([]SchoolStanding, error)
	EventResults(ctx context.Context) ([]EventResult, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
	StandingsChart(ctx context.Context, w io.Writer) error
}

// StandingsService implements the Service interface.
type StandingsService struct {
	repo   standingsdb.Repository
	runner *operations.Runner
}

// NewStandingsService creates a new StandingsService.
func NewStandingsService(
	repo standingsdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StandingsService{
		repo: repo,
		runner: &operations.Runner{
			Service: "standings",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// SchoolStandings returns every school's totals ordered by total points,
// highest first.
func (s *StandingsService) SchoolStandings(ctx context.Context) ([]SchoolStanding, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "SchoolStandings", "",
		func(ctx context.Context) (operations.Result[[]SchoolStanding], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[[]SchoolStanding], error) {
				rows, err := s.repo.SchoolStandings(ctx, db)
				if err != nil {
					return operations.Classify[[]SchoolStanding](err)
				}
				standings := make([]SchoolStanding, 0, len(rows))
				for _, row := range rows {
					standings = append(standings, SchoolStanding{
						SchoolID:           row.SchoolID,
						SchoolName:         row.SchoolName,
						EventsParticipated: row.EventsParticipated,
						TotalResults:       row.TotalResults,
						TotalPoints:        row.TotalPoints,
						AvgPoints:          averagePoints(row.TotalPoints, row.TotalResults),
					})
				}
				return operations.Success(standings), nil
			})
		}))
}

// averagePoints is total/count rounded to two decimals, or 0 without results.
func averagePoints(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(count)*100) / 100
}

// EventResults returns every result flattened with its related names,
// newest event first. Results whose related rows are missing are skipped and
// logged.
func (s *StandingsService) EventResults(ctx context.Context) ([]EventResult, error) {
	return operations.Unwrap(operations.WithTelemetry(s.runner, ctx, "EventResults", "",
		func(ctx context.Context) (operations.Result[[]EventResult], error) {
			return operations.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operations.Result[[]EventResult], error) {
				rows, err := s.repo.EventResultRows(ctx, db)
				if err != nil {
					return operations.Classify[[]EventResult](err)
				}

				out := make([]EventResult, 0, len(rows))
				skipped := 0
				for _, row := range rows {
					res, missing := flatten(row)
					if missing != "" {
						skipped++
						s.runner.Logger.WarnContext(ctx, "Skipping result with missing related row",
							observability.CorrelationID(ctx),
							observability.Int64("result_id", row.ResultID),
							observability.String("missing", missing),
						)
						continue
					}
					out = append(out, res)
				}
				if skipped > 0 {
					s.runner.Logger.WarnContext(ctx, "Event results report is incomplete",
						observability.CorrelationID(ctx),
						observability.Int("skipped", skipped),
						observability.Int("rendered", len(out)),
					)
				}
				return operations.Success(out), nil
			})
		}))
}

// flatten converts a joined row, returning the name of the first missing
// relation when the row cannot be rendered.
func flatten(row standingsdb.EventResultRow) (EventResult, string) {
	switch {
	case row.EventID == nil || row.EventName == nil:
		return EventResult{}, "event"
	case row.SportName == nil:
		return EventResult{}, "sport"
	case row.TeacherFirstName == nil || row.TeacherLastName == nil:
		return EventResult{}, "teacher"
	case row.ParticipantID == nil || row.ParticipantFirstName == nil || row.ParticipantLastName == nil:
		return EventResult{}, "participant"
	case row.SchoolName == nil:
		return EventResult{}, "school"
	case row.CategoryName == nil:
		return EventResult{}, "category"
	}

	location := ""
	if row.Location != nil {
		location = *row.Location
	}
	return EventResult{
		EventName:       *row.EventName,
		Date:            row.EventDate,
		Location:        location,
		SportName:       *row.SportName,
		TeacherName:     strings.TrimSpace(*row.TeacherFirstName + " " + *row.TeacherLastName),
		SchoolName:      *row.SchoolName,
		ParticipantName: strings.TrimSpace(*row.ParticipantFirstName + " " + *row.ParticipantLastName),
		CategoryName:    *row.CategoryName,
		Time:            row.Time,
		Points:          row.Points,
		Place:           row.Place,
	}, ""
}

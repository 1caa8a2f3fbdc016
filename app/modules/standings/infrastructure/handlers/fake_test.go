package standingshandlers

import (
	"context"
	"io"

	standingsservice "github.com/Black-And-White-Club/sportsday/app/modules/standings/application"
)

// FakeService is a programmable fake for standingsservice.Service.
type FakeService struct {
	trace []string

	SchoolStandingsFunc func(ctx context.Context) ([]standingsservice.SchoolStanding, error)
	EventResultsFunc    func(ctx context.Context) ([]standingsservice.EventResult, error)
	ExportXLSXFunc      func(ctx context.Context, w io.Writer) error
	StandingsChartFunc  func(ctx context.Context, w io.Writer) error
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) SchoolStandings(ctx context.Context) ([]standingsservice.SchoolStanding, error) {
	f.record("SchoolStandings")
	if f.SchoolStandingsFunc != nil {
		return f.SchoolStandingsFunc(ctx)
	}
	return []standingsservice.SchoolStanding{}, nil
}

func (f *FakeService) EventResults(ctx context.Context) ([]standingsservice.EventResult, error) {
	f.record("EventResults")
	if f.EventResultsFunc != nil {
		return f.EventResultsFunc(ctx)
	}
	return []standingsservice.EventResult{}, nil
}

func (f *FakeService) ExportXLSX(ctx context.Context, w io.Writer) error {
	f.record("ExportXLSX")
	if f.ExportXLSXFunc != nil {
		return f.ExportXLSXFunc(ctx, w)
	}
	return nil
}

func (f *FakeService) StandingsChart(ctx context.Context, w io.Writer) error {
	f.record("StandingsChart")
	if f.StandingsChartFunc != nil {
		return f.StandingsChartFunc(ctx, w)
	}
	return nil
}

var _ standingsservice.Service = (*FakeService)(nil)

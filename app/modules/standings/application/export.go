package standingsservice

import (
	"context"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by ExportXLSX.
const (
	StandingsSheet    = "Standings"
	EventResultsSheet = "Event Results"
)

// tabular is a fixed-field report record.
type tabular interface {
	Columns() []string
	Values() []any
}

// ExportXLSX writes both reports to w as one workbook with a sheet each.
func (s *StandingsService) ExportXLSX(ctx context.Context, w io.Writer) error {
	standings, err := s.SchoolStandings(ctx)
	if err != nil {
		return err
	}
	results, err := s.EventResults(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return fmt.Errorf("failed to name standings sheet: %w", err)
	}
	if err := writeSheet(f, StandingsSheet, standings); err != nil {
		return err
	}

	if _, err := f.NewSheet(EventResultsSheet); err != nil {
		return fmt.Errorf("failed to add event results sheet: %w", err)
	}
	if err := writeSheet(f, EventResultsSheet, results); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet[R tabular](f *excelize.File, sheet string, rows []R) error {
	var zero R
	header := zero.Columns()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// Chart colours.
var (
	chartBar        = drawing.ColorFromHex("2E7D32")
	chartBackground = drawing.ColorFromHex("FFFFFF")
	chartText       = drawing.ColorFromHex("212121")
)

// StandingsChart renders total points per school as a PNG bar chart.
func (s *StandingsService) StandingsChart(ctx context.Context, w io.Writer) error {
	standings, err := s.SchoolStandings(ctx)
	if err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(standings))
	maxPoints := 0
	for _, st := range standings {
		bars = append(bars, chart.Value{
			Label: st.SchoolName,
			Value: float64(st.TotalPoints),
			Style: chart.Style{FillColor: chartBar, StrokeColor: chartBar},
		})
		maxPoints = max(maxPoints, st.TotalPoints)
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "no schools", Value: 0})
	}

	graph := chart.BarChart{
		Title:      "School standings",
		Width:      max(600, 120*len(bars)+100),
		Height:     400,
		BarWidth:   60,
		BarSpacing: 40,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: chartBackground},
		XAxis:  chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Name:  "Total points",
			Style: chart.Style{FontColor: chartText},
			// An explicit range keeps all-zero standings renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(maxPoints, 1))},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render standings chart: %w", err)
	}
	return nil
}

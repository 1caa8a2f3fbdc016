package standingsservice

import (
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
)

// SchoolStanding is a school's aggregated participation and score.
type SchoolStanding struct {
	SchoolID           int64   `json:"school_id"`
	SchoolName         string  `json:"school_name"`
	EventsParticipated int     `json:"events_participated"`
	TotalResults       int     `json:"total_results"`
	TotalPoints        int     `json:"total_points"`
	AvgPoints          float64 `json:"avg_points"`
}

var schoolStandingColumns = []string{
	"school_id", "school_name", "events_participated", "total_results", "total_points", "avg_points",
}

// Columns lists the exported fields in order.
func (SchoolStanding) Columns() []string { return schoolStandingColumns }

// Values returns the fields in Columns order.
func (s SchoolStanding) Values() []any {
	return []any{s.SchoolID, s.SchoolName, s.EventsParticipated, s.TotalResults, s.TotalPoints, s.AvgPoints}
}

// EventResult is one flattened result line.
type EventResult struct {
	EventName       string              `json:"event_name"`
	Date            registrydb.Date     `json:"date"`
	Location        string              `json:"location"`
	SportName       string              `json:"sport_name"`
	TeacherName     string              `json:"teacher_name"`
	SchoolName      string              `json:"school_name"`
	ParticipantName string              `json:"participant_name"`
	CategoryName    string              `json:"category_name"`
	Time            registrydb.RaceTime `json:"time"`
	Points          int                 `json:"points"`
	Place           int                 `json:"place"`
}

var eventResultColumns = []string{
	"event_name", "date", "location", "sport_name", "teacher_name", "school_name",
	"participant_name", "category_name", "time", "points", "place",
}

// Columns lists the exported fields in order.
func (EventResult) Columns() []string { return eventResultColumns }

// Values returns the fields in Columns order.
func (r EventResult) Values() []any {
	return []any{
		r.EventName, r.Date.String(), r.Location, r.SportName, r.TeacherName, r.SchoolName,
		r.ParticipantName, r.CategoryName, r.Time.String(), r.Points, r.Place,
	}
}

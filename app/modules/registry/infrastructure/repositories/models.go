package registrydb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
)

// Gender values accepted for participants and categories.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// School is a participating school.
type School struct {
	bun.BaseModel `bun:"table:schools,alias:sc"`

	ID           int64   `bun:"id,pk,autoincrement" json:"id"`
	Name         string  `bun:"name,notnull,unique,type:varchar(100)" json:"name"`
	Address      *string `bun:"address,type:varchar(200)" json:"address,omitempty"`
	ContactPhone *string `bun:"contact_phone,type:varchar(20)" json:"contact_phone,omitempty"`
}

// Class is a school class. Name is unique within a school.
type Class struct {
	bun.BaseModel `bun:"table:classes,alias:cl"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	SchoolID  int64  `bun:"school_id,notnull,unique:uix_school_name" json:"school_id"`
	Name      string `bun:"name,notnull,type:varchar(10),unique:uix_school_name" json:"name"`
	Year      *int   `bun:"year" json:"year,omitempty"`
	TeacherID *int64 `bun:"teacher_id" json:"teacher_id,omitempty"`
}

// Teacher works at a school and may be responsible for events.
type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:te"`

	ID        int64   `bun:"id,pk,autoincrement" json:"id"`
	SchoolID  int64   `bun:"school_id,notnull" json:"school_id"`
	FirstName string  `bun:"first_name,notnull,type:varchar(50)" json:"first_name"`
	LastName  string  `bun:"last_name,notnull,type:varchar(50)" json:"last_name"`
	Phone     *string `bun:"phone,type:varchar(20)" json:"phone,omitempty"`
}

// FullName is "First Last".
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// Participant is a pupil who competes for their school.
type Participant struct {
	bun.BaseModel `bun:"table:participants,alias:pa"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	SchoolID  int64  `bun:"school_id,notnull" json:"school_id"`
	ClassID   int64  `bun:"class_id,notnull" json:"class_id"`
	FirstName string `bun:"first_name,notnull,type:varchar(50)" json:"first_name"`
	LastName  string `bun:"last_name,notnull,type:varchar(50)" json:"last_name"`
	BirthDate Date   `bun:"birth_date,notnull,type:date" json:"birth_date"`
	Gender    string `bun:"gender,notnull,type:varchar(1)" json:"gender"`
}

// Sport is a discipline such as sprint or long jump.
type Sport struct {
	bun.BaseModel `bun:"table:sports,alias:sp"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,notnull,unique,type:varchar(100)" json:"name"`
	Description *string `bun:"description,type:text" json:"description,omitempty"`
}

// Rank is a sport grade awarded from MinPoints upwards.
type Rank struct {
	bun.BaseModel `bun:"table:ranks,alias:ra"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	SportID   int64  `bun:"sport_id,notnull,unique:uix_sport_name" json:"sport_id"`
	Name      string `bun:"name,notnull,type:varchar(50),unique:uix_sport_name" json:"name"`
	MinPoints int    `bun:"min_points,notnull" json:"min_points"`
}

// ParticipantRank links a participant to a rank they hold.
type ParticipantRank struct {
	bun.BaseModel `bun:"table:participant_ranks,alias:pr"`

	ParticipantID int64 `bun:"participant_id,pk" json:"participant_id"`
	RankID        int64 `bun:"rank_id,pk" json:"rank_id"`
	AssignedDate  Date  `bun:"assigned_date,notnull,type:date" json:"assigned_date"`
}

// Category is an age/gender bracket results are recorded in.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:ca"`

	ID     int64   `bun:"id,pk,autoincrement" json:"id"`
	Name   string  `bun:"name,notnull,type:varchar(100)" json:"name"`
	MinAge int     `bun:"min_age,notnull" json:"min_age"`
	MaxAge int     `bun:"max_age,notnull" json:"max_age"`
	Gender *string `bun:"gender,type:varchar(1)" json:"gender,omitempty"`
}

// Event is a single competition of a sport on a date.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:ev"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	SportID       int64   `bun:"sport_id,notnull" json:"sport_id"`
	Name          string  `bun:"name,notnull,type:varchar(100)" json:"name"`
	Date          Date    `bun:"date,notnull,type:date" json:"date"`
	Location      *string `bun:"location,type:varchar(200)" json:"location,omitempty"`
	ResponsibleID int64   `bun:"responsible_id,notnull" json:"responsible_id"`
	Distance      float64 `bun:"distance,notnull" json:"distance"`
}

// EventParticipant registers a participant for an event.
type EventParticipant struct {
	bun.BaseModel `bun:"table:event_participants,alias:ep"`

	EventID          int64 `bun:"event_id,pk" json:"event_id"`
	ParticipantID    int64 `bun:"participant_id,pk" json:"participant_id"`
	RegistrationDate Date  `bun:"registration_date,notnull,type:date" json:"registration_date"`
}

// Result is one participant's outcome in an event category.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:re"`

	ID            int64    `bun:"id,pk,autoincrement" json:"id"`
	EventID       int64    `bun:"event_id,notnull" json:"event_id"`
	ParticipantID int64    `bun:"participant_id,notnull" json:"participant_id"`
	CategoryID    int64    `bun:"category_id,notnull" json:"category_id"`
	Time          RaceTime `bun:"time,notnull,type:bigint" json:"time"`
	Points        int      `bun:"points,notnull" json:"points"`
	Place         int      `bun:"place,notnull" json:"place"`
}

// SchoolPoint is a manually entered school total for an event.
type SchoolPoint struct {
	bun.BaseModel `bun:"table:school_points,alias:spt"`

	SchoolID    int64 `bun:"school_id,pk" json:"school_id"`
	EventID     int64 `bun:"event_id,pk" json:"event_id"`
	TotalPoints int   `bun:"total_points,notnull" json:"total_points"`
}

// Reference points at a row another row depends on.
type Reference struct {
	Entity string
	Table  string
	ID     int64
}

func ref(entity, table string, id int64) Reference {
	return Reference{Entity: entity, Table: table, ID: id}
}

func optionalRef(entity, table string, id *int64) []Reference {
	if id == nil {
		return nil
	}
	return []Reference{ref(entity, table, *id)}
}

func required(field, value string, maxLen int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return sportserr.Invalid(field, "is required")
	}
	if maxLen > 0 && len([]rune(value)) > maxLen {
		return sportserr.Invalid(field, "must be at most %d characters", maxLen)
	}
	return nil
}

func positiveID(field string, id int64) error {
	if id <= 0 {
		return sportserr.Invalid(field, "must reference an existing row")
	}
	return nil
}

func validGender(field, g string) error {
	if g != GenderMale && g != GenderFemale {
		return sportserr.Invalid(field, "must be %q or %q", GenderMale, GenderFemale)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// --- School ---

func (*School) EntityName() string { return "school" }
func (s *School) Key() int64 { return s.ID }

func (s *School) SetKey(id int64) { s.ID = id }

func (s *School) Validate() error {
	return firstErr(
		required("name", s.Name, 100),
	)
}

func (*School) References() []Reference { return nil }

// --- Class ---

func (*Class) EntityName() string { return "class" }
func (c *Class) Key() int64 { return c.ID }

func (c *Class) SetKey(id int64) { c.ID = id }

func (c *Class) Validate() error {
	if err := firstErr(positiveID("school_id", c.SchoolID), required("name", c.Name, 10)); err != nil {
		return err
	}
	if c.Year != nil && (*c.Year < 1900 || *c.Year > 2100) {
		return sportserr.Invalid("year", "must be between 1900 and 2100")
	}
	return nil
}

func (c *Class) References() []Reference {
	return append([]Reference{ref("school", "schools", c.SchoolID)}, optionalRef("teacher", "teachers", c.TeacherID)...)
}

func (*Class) FilterColumns() []string { return []string{"school_id", "teacher_id"} }

// --- Teacher ---

func (*Teacher) EntityName() string { return "teacher" }
func (t *Teacher) Key() int64 { return t.ID }

func (t *Teacher) SetKey(id int64) { t.ID = id }

func (t *Teacher) Validate() error {
	return firstErr(
		positiveID("school_id", t.SchoolID),
		required("first_name", t.FirstName, 50),
		required("last_name", t.LastName, 50),
	)
}

func (t *Teacher) References() []Reference {
	return []Reference{ref("school", "schools", t.SchoolID)}
}

func (*Teacher) FilterColumns() []string { return []string{"school_id"} }

// --- Participant ---

func (*Participant) EntityName() string { return "participant" }
func (p *Participant) Key() int64 { return p.ID }

func (p *Participant) SetKey(id int64) { p.ID = id }

func (p *Participant) Validate() error {
	if err := firstErr(
		positiveID("school_id", p.SchoolID),
		positiveID("class_id", p.ClassID),
		required("first_name", p.FirstName, 50),
		required("last_name", p.LastName, 50),
		validGender("gender", p.Gender),
	); err != nil {
		return err
	}
	if p.BirthDate.IsZero() {
		return sportserr.Invalid("birth_date", "is required")
	}
	return nil
}

func (p *Participant) References() []Reference {
	return []Reference{
		ref("school", "schools", p.SchoolID),
		ref("class", "classes", p.ClassID),
	}
}

func (*Participant) FilterColumns() []string { return []string{"school_id", "class_id"} }

// FullName is "First Last".
func (p *Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// --- Sport ---

func (*Sport) EntityName() string { return "sport" }
func (s *Sport) Key() int64 { return s.ID }

func (s *Sport) SetKey(id int64) { s.ID = id }

func (s *Sport) Validate() error { return required("name", s.Name, 100) }

func (*Sport) References() []Reference { return nil }

// --- Rank ---

func (*Rank) EntityName() string { return "rank" }
func (r *Rank) Key() int64 { return r.ID }

func (r *Rank) SetKey(id int64) { r.ID = id }

func (r *Rank) Validate() error {
	if err := firstErr(positiveID("sport_id", r.SportID), required("name", r.Name, 50)); err != nil {
		return err
	}
	if r.MinPoints < 0 {
		return sportserr.Invalid("min_points", "must be >= 0")
	}
	return nil
}

func (r *Rank) References() []Reference {
	return []Reference{ref("sport", "sports", r.SportID)}
}

func (*Rank) FilterColumns() []string { return []string{"sport_id"} }

// --- ParticipantRank ---

func (*ParticipantRank) EntityName() string { return "participant rank" }

func (*ParticipantRank) KeyColumns() (string, string) { return "participant_id", "rank_id" }

func (pr *ParticipantRank) KeyValues() (int64, int64) { return pr.ParticipantID, pr.RankID }

func (pr *ParticipantRank) SetKeyValues(a, b int64) { pr.ParticipantID, pr.RankID = a, b }

func (pr *ParticipantRank) Validate() error {
	if pr.AssignedDate.IsZero() {
		return sportserr.Invalid("assigned_date", "is required")
	}
	return firstErr(positiveID("participant_id", pr.ParticipantID), positiveID("rank_id", pr.RankID))
}

func (pr *ParticipantRank) References() []Reference {
	return []Reference{
		ref("participant", "participants", pr.ParticipantID),
		ref("rank", "ranks", pr.RankID),
	}
}

// --- Category ---

func (*Category) EntityName() string { return "category" }
func (c *Category) Key() int64 { return c.ID }

func (c *Category) SetKey(id int64) { c.ID = id }

func (c *Category) Validate() error {
	if err := required("name", c.Name, 100); err != nil {
		return err
	}
	if c.MinAge < 0 {
		return sportserr.Invalid("min_age", "must be >= 0")
	}
	if c.MaxAge < c.MinAge {
		return sportserr.Invalid("max_age", "must be >= min_age")
	}
	if c.Gender != nil {
		return validGender("gender", *c.Gender)
	}
	return nil
}

func (*Category) References() []Reference { return nil }

// --- Event ---

func (*Event) EntityName() string { return "event" }
func (e *Event) Key() int64 { return e.ID }

func (e *Event) SetKey(id int64) { e.ID = id }

func (e *Event) Validate() error {
	if err := firstErr(
		positiveID("sport_id", e.SportID),
		positiveID("responsible_id", e.ResponsibleID),
		required("name", e.Name, 100),
	); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return sportserr.Invalid("date", "is required")
	}
	if e.Distance < 0 {
		return sportserr.Invalid("distance", "must be >= 0")
	}
	return nil
}

func (e *Event) References() []Reference {
	return []Reference{
		ref("sport", "sports", e.SportID),
		ref("teacher", "teachers", e.ResponsibleID),
	}
}

func (*Event) FilterColumns() []string { return []string{"sport_id", "responsible_id"} }

// --- EventParticipant ---

func (*EventParticipant) EntityName() string { return "event registration" }

func (*EventParticipant) KeyColumns() (string, string) { return "event_id", "participant_id" }

func (ep *EventParticipant) KeyValues() (int64, int64) { return ep.EventID, ep.ParticipantID }

func (ep *EventParticipant) SetKeyValues(a, b int64) { ep.EventID, ep.ParticipantID = a, b }

func (ep *EventParticipant) Validate() error {
	if ep.RegistrationDate.IsZero() {
		return sportserr.Invalid("registration_date", "is required")
	}
	return firstErr(positiveID("event_id", ep.EventID), positiveID("participant_id", ep.ParticipantID))
}

func (ep *EventParticipant) References() []Reference {
	return []Reference{
		ref("event", "events", ep.EventID),
		ref("participant", "participants", ep.ParticipantID),
	}
}

// --- Result ---

func (*Result) EntityName() string { return "result" }
func (r *Result) Key() int64 { return r.ID }

func (r *Result) SetKey(id int64) { r.ID = id }

func (r *Result) Validate() error {
	if err := firstErr(
		positiveID("event_id", r.EventID),
		positiveID("participant_id", r.ParticipantID),
		positiveID("category_id", r.CategoryID),
	); err != nil {
		return err
	}
	if r.Time < 0 {
		return sportserr.Invalid("time", "must not be negative")
	}
	if r.Points < 0 {
		return sportserr.Invalid("points", "must be >= 0")
	}
	if r.Place < 1 {
		return sportserr.Invalid("place", "must be >= 1")
	}
	return nil
}

func (r *Result) References() []Reference {
	return []Reference{
		ref("event", "events", r.EventID),
		ref("participant", "participants", r.ParticipantID),
		ref("category", "categories", r.CategoryID),
	}
}

// CheckWrite refuses a result for a participant who is not registered for
// the event.
func (r *Result) CheckWrite(ctx context.Context, db bun.IDB) error {
	ok, err := db.NewSelect().Model((*EventParticipant)(nil)).
		Where("event_id = ?", r.EventID).
		Where("participant_id = ?", r.ParticipantID).
		Exists(ctx)
	if err != nil {
		return sportserr.Translate(sportserr.OpRead, "event registration", fmt.Sprintf("(%d, %d)", r.EventID, r.ParticipantID), err)
	}
	if !ok {
		return &sportserr.NotRegisteredError{EventID: r.EventID, ParticipantID: r.ParticipantID}
	}
	return nil
}

func (*Result) FilterColumns() []string {
	return []string{"event_id", "participant_id", "category_id"}
}

// --- SchoolPoint ---

func (*SchoolPoint) EntityName() string { return "school point" }

func (*SchoolPoint) KeyColumns() (string, string) { return "school_id", "event_id" }

func (sp *SchoolPoint) KeyValues() (int64, int64) { return sp.SchoolID, sp.EventID }

func (sp *SchoolPoint) SetKeyValues(a, b int64) { sp.SchoolID, sp.EventID = a, b }

func (sp *SchoolPoint) Validate() error {
	if sp.TotalPoints < 0 {
		return sportserr.Invalid("total_points", "must be >= 0")
	}
	return firstErr(positiveID("school_id", sp.SchoolID), positiveID("event_id", sp.EventID))
}

func (sp *SchoolPoint) References() []Reference {
	return []Reference{
		ref("school", "schools", sp.SchoolID),
		ref("event", "events", sp.EventID),
	}
}

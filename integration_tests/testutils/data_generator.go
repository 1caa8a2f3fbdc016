//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator fills the registry with plausible rows.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	repo  *registrydb.Repository
	seq   int
}

// NewTestDataGenerator creates a generator writing through repo. The seed
// makes names reproducible.
func NewTestDataGenerator(repo *registrydb.Repository, seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed), repo: repo}
}

// unique suffixes generated names so unique constraints never collide.
func (g *TestDataGenerator) unique(s string) string {
	g.seq++
	return fmt.Sprintf("%s %d", s, g.seq)
}

// School creates a school with one teacher and one class.
func (g *TestDataGenerator) School(t *testing.T) (*registrydb.School, *registrydb.Teacher, *registrydb.Class) {
	t.Helper()
	ctx := context.Background()

	address := g.faker.Street()
	school := &registrydb.School{Name: g.unique(g.faker.City() + " School"), Address: &address}
	if err := g.repo.Schools.Create(ctx, nil, school); err != nil {
		t.Fatalf("create school: %v", err)
	}
	teacher := &registrydb.Teacher{
		SchoolID:  school.ID,
		FirstName: g.faker.FirstName(),
		LastName:  g.faker.LastName(),
	}
	if err := g.repo.Teachers.Create(ctx, nil, teacher); err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	year := g.faker.Number(2020, 2024)
	class := &registrydb.Class{
		SchoolID:  school.ID,
		Name:      fmt.Sprintf("%d%s", g.faker.Number(1, 9), g.faker.RandomString([]string{"A", "B", "C"})),
		Year:      &year,
		TeacherID: &teacher.ID,
	}
	if err := g.repo.Classes.Create(ctx, nil, class); err != nil {
		t.Fatalf("create class: %v", err)
	}
	return school, teacher, class
}

// Participants creates n pupils in class.
func (g *TestDataGenerator) Participants(t *testing.T, class *registrydb.Class, n int) []*registrydb.Participant {
	t.Helper()
	out := make([]*registrydb.Participant, 0, n)
	for range n {
		p := &registrydb.Participant{
			SchoolID:  class.SchoolID,
			ClassID:   class.ID,
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			BirthDate: registrydb.NewDate(g.faker.Number(2010, 2016), time.Month(g.faker.Number(1, 12)), g.faker.Number(1, 28)),
			Gender:    g.faker.RandomString([]string{registrydb.GenderMale, registrydb.GenderFemale}),
		}
		if err := g.repo.Participants.Create(context.Background(), nil, p); err != nil {
			t.Fatalf("create participant: %v", err)
		}
		out = append(out, p)
	}
	return out
}

// Event creates a sport and an event of it run by responsible.
func (g *TestDataGenerator) Event(t *testing.T, responsible *registrydb.Teacher) *registrydb.Event {
	t.Helper()
	ctx := context.Background()

	sport := &registrydb.Sport{Name: g.unique(g.faker.Hobby())}
	if err := g.repo.Sports.Create(ctx, nil, sport); err != nil {
		t.Fatalf("create sport: %v", err)
	}
	location := g.faker.City()
	event := &registrydb.Event{
		SportID:       sport.ID,
		Name:          g.unique(sport.Name + " final"),
		Date:          registrydb.NewDate(2024, time.June, g.faker.Number(1, 28)),
		Location:      &location,
		ResponsibleID: responsible.ID,
		Distance:      float64(g.faker.Number(60, 1500)),
	}
	if err := g.repo.Events.Create(ctx, nil, event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

// Category creates an open category.
func (g *TestDataGenerator) Category(t *testing.T) *registrydb.Category {
	t.Helper()
	c := &registrydb.Category{Name: g.unique("Open"), MinAge: 6, MaxAge: 18}
	if err := g.repo.Categories.Create(context.Background(), nil, c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

package registryservice

import (
	"context"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
)

// DefaultSchools are created by SeedSchools on an empty store.
func DefaultSchools() []registrydb.School {
	return []registrydb.School{
		{Name: "School №1", Address: ptr("123 Main St"), ContactPhone: ptr("+123456789")},
		{Name: "School №2", Address: ptr("456 Oak St"), ContactPhone: ptr("+987654321")},
	}
}

// SeedSchools creates DefaultSchools when no school exists yet and returns
// the rows it created. A store that already has schools is left untouched.
func (s *Service) SeedSchools(ctx context.Context) ([]registrydb.School, error) {
	existing, err := s.Schools.List(ctx, registrydb.Filter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, nil
	}

	var created []registrydb.School
	for _, school := range DefaultSchools() {
		out, err := s.Schools.Create(ctx, &school)
		if err != nil {
			return created, err
		}
		created = append(created, *out)
	}
	return created, nil
}

func ptr[T any](v T) *T { return &v }

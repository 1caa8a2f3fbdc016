package registrymigrations

import (
	"context"
	"fmt"

	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating registry tables...")
		if err := registrydb.CreateSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create registry tables: %w", err)
		}
		fmt.Println("Registry tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping registry tables...")
		if err := registrydb.DropSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to drop registry tables: %w", err)
		}
		fmt.Println("Registry tables dropped successfully!")
		return nil
	})
}

package auditmigrations

import (
	"context"
	"fmt"

	auditdb "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating logs table...")
		if err := auditdb.CreateSchema(ctx, db); err != nil {
			return err
		}
		fmt.Println("Logs table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping logs table...")
		return auditdb.DropSchema(ctx, db)
	})
}

package registrymigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Migration ids are derived from the registering file name.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}

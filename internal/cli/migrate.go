package cli

import (
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/app"
	"github.com/Freeeeeet/studio_scheduler/migrations"
)

type MigrateCmd struct {
	Direction string `arg:"" enum:"up,down,version" default:"up" help:"up applies pending migrations, down rolls back the last one."`
}

func (c *MigrateCmd) Run(ctx *Context) error {
	migrator, err := app.NewMigrator(ctx.Pool, migrations.FS, ctx.Logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch c.Direction {
	case "down":
		err = migrator.Down(ctx.Ctx)
	case "version":
	default:
		err = migrator.Run(ctx.Ctx)
	}
	if err != nil {
		return err
	}

	version, err := migrator.Version(ctx.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Schema version: %d\n", version)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Freeeeeet/studio_scheduler/internal/app"
	"github.com/Freeeeeet/studio_scheduler/internal/cli"
	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"
)

var CLI struct {
	Migrate   cli.MigrateCmd   `cmd:"" help:"Apply or roll back database migrations."`
	Presence  cli.PresenceCmd  `cmd:"" help:"Show who attends a class on a date."`
	Journal   cli.JournalCmd   `cmd:"" help:"Rebuild the attendance journal for the coming weeks."`
	ICS       cli.ICSCmd       `cmd:"" name:"ics" help:"Export a student's classes as an iCalendar file."`
	WeekImage cli.WeekImageCmd `cmd:"" help:"Render the week grid to a PNG file."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("studioctl"),
		kong.Description("Studio scheduler maintenance tool"),
		kong.UsageOnError(),
	)

	if err := run(kctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	return kctx.Run(&cli.Context{
		Ctx:    ctx,
		Config: cfg,
		Pool:   pool,
		Logger: logger,
		Out:    os.Stdout,
	})
}

package cli

import (
	"fmt"
	"time"
)

type JournalCmd struct {
	Weeks int `help:"Weeks ahead to materialize, starting from the current week." default:"0"`
}

func (c *JournalCmd) Run(ctx *Context) error {
	weeks := c.Weeks
	if weeks <= 0 {
		weeks = ctx.Config.JournalWeeksAhead
	}

	engine, err := ctx.LoadEngine()
	if err != nil {
		return err
	}

	written, err := engine.Journal.Materialize(ctx.Ctx, time.Now(), weeks)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Journal rows written: %d (%d weeks)\n", written, weeks)
	return nil
}

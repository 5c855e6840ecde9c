package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Freeeeeet/studio_scheduler/internal/attendance"
	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
)

type PresenceCmd struct {
	Class string `arg:"" help:"Class code, e.g. L16 or M8."`
	Date  string `arg:"" help:"Date (YYYY-MM-DD, DD/MM/YYYY or 'today')." default:"today"`
}

func (c *PresenceCmd) Run(ctx *Context) error {
	date := c.Date
	if date == "today" {
		date = calendar.Today(ctx.Config.Location)
	} else {
		var err error
		if date, err = calendar.NormalizeDate(date); err != nil {
			return err
		}
	}

	engine, err := ctx.LoadEngine()
	if err != nil {
		return err
	}

	classID, err := engine.Booking.FindClass(c.Class)
	if err != nil {
		return err
	}
	view, err := engine.Booking.ClassView(classID, date)
	if err != nil {
		return err
	}

	printClassView(ctx.Out, view)
	return nil
}

var sourceLabels = map[attendance.Source]string{
	attendance.SourcePermanent: "permanent",
	attendance.SourceOneTime:   "one-time",
	attendance.SourceBoth:      "permanent+one-time",
}

func printClassView(w io.Writer, view *service.ClassView) {
	status := ""
	if view.IsCancelled {
		status = " CANCELLED"
	}
	fmt.Fprintf(w, "%s %s %02d:00  %d/%d%s\n", view.ClassID, view.Date, view.Hour, view.Occupancy, view.Capacity, status)

	for _, p := range view.Present {
		fmt.Fprintf(w, "  %-30s %-9s %s\n", p.Student.FullName(), p.Student.Level, sourceLabels[p.Source])
	}
	if len(view.AbsentIDs) > 0 {
		fmt.Fprintf(w, "  absent: %s\n", strings.Join(view.AbsentIDs, ", "))
	}
}

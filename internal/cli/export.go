package cli

import (
	"time"

	"github.com/Freeeeeet/studio_scheduler/internal/calendar"
	"github.com/Freeeeeet/studio_scheduler/internal/controller/render"
)

type ICSCmd struct {
	Student string `arg:"" help:"Student id or unique part of the name."`
	Weeks   int    `help:"Weeks to include." default:"8"`
	Out     string `short:"o" help:"Output file, '-' for stdout." default:"-"`
}

func (c *ICSCmd) Run(ctx *Context) error {
	engine, err := ctx.LoadEngine()
	if err != nil {
		return err
	}

	studentID, err := resolveStudent(engine, c.Student)
	if err != nil {
		return err
	}

	from := calendar.StartOfDay(time.Now().In(ctx.Config.Location))
	ics, err := engine.Booking.StudentICS(studentID, from, c.Weeks)
	if err != nil {
		return err
	}

	return ctx.writeOutput(c.Out, []byte(ics))
}

type WeekImageCmd struct {
	Date string `arg:"" help:"Any date of the week (YYYY-MM-DD or 'today')." default:"today"`
	Out  string `short:"o" help:"Output PNG file." default:"week.png"`
}

func (c *WeekImageCmd) Run(ctx *Context) error {
	today := calendar.Today(ctx.Config.Location)
	date := c.Date
	if date == "today" {
		date = today
	}

	engine, err := ctx.LoadEngine()
	if err != nil {
		return err
	}

	week, err := engine.Booking.WeekOverview(date, ctx.Config.Location)
	if err != nil {
		return err
	}

	img, err := render.WeekImage(week, today)
	if err != nil {
		return err
	}

	return ctx.writeOutput(c.Out, img)
}

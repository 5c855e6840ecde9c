package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Freeeeeet/studio_scheduler/internal/config"
	"github.com/Freeeeeet/studio_scheduler/internal/repository"
	"github.com/Freeeeeet/studio_scheduler/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Context общие зависимости команд studioctl
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Pool   *pgxpool.Pool
	Logger *zap.Logger
	Out    io.Writer
}

// Engine загруженное из базы состояние студии с сервисами поверх него
type Engine struct {
	Store    *repository.StudioStore
	Booking  *service.BookingService
	Students *service.StudentService
	Journal  *service.JournalService
}

// LoadEngine читает состояние студии из базы
func (c *Context) LoadEngine() (*Engine, error) {
	store := repository.NewStudioStore(c.Pool, c.Config.Timetable, c.Logger)
	snap, err := store.LoadAll(c.Ctx)
	if err != nil {
		return nil, err
	}

	state := service.NewState(snap)
	return &Engine{
		Store:    store,
		Booking:  service.NewBookingService(state, store, c.Config.MaxCapacity, c.Logger),
		Students: service.NewStudentService(state, store, c.Logger),
		Journal:  service.NewJournalService(state, store, c.Config.Location, c.Logger),
	}, nil
}

// writeOutput пишет данные в файл или в Out, если путь "-"
func (c *Context) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(c.Out, "Written %s (%d bytes)\n", path, len(data))
	return nil
}

// resolveStudent ищет ученицу по ID или единственному совпадению имени
func resolveStudent(engine *Engine, query string) (string, error) {
	if st, err := engine.Booking.Student(query); err == nil {
		return st.ID, nil
	}

	found := engine.Students.FindStudents(query)
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no student matches %q", query)
	case 1:
		return found[0].ID, nil
	default:
		return "", fmt.Errorf("%d students match %q, use the id", len(found), query)
	}
}

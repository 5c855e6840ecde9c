package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_scheduler/internal/model"
	"github.com/Freeeeeet/studio_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type ClassSlotRepository struct {
	db base.Querier
}

func NewClassSlotRepository(db base.Querier) *ClassSlotRepository {
	return &ClassSlotRepository{db: db}
}

// EnsureSlots создаёт недостающие слоты сетки. Флаг отмены существующих слотов не трогается.
func (r *ClassSlotRepository) EnsureSlots(ctx context.Context, slots []*model.ClassSlot) error {
	query := `
		INSERT INTO class_slots (id, weekday, hour)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, slot := range slots {
		batch.Queue(query, slot.ID, int(slot.Weekday), slot.Hour)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range slots {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ensure class slot: %w", err)
		}
	}

	return nil
}

// CancelledIDs возвращает ID отменённых слотов
func (r *ClassSlotRepository) CancelledIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM class_slots WHERE is_cancelled`)
	if err != nil {
		return nil, fmt.Errorf("get cancelled slots: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan class slot: %w", err)
		}
		out[id] = true
	}

	return out, rows.Err()
}

// SetCancelled меняет флаг отмены слота
func (r *ClassSlotRepository) SetCancelled(ctx context.Context, id string, cancelled bool) error {
	affected, err := base.ExecAffected(ctx, r.db,
		`UPDATE class_slots SET is_cancelled = $2 WHERE id = $1`, id, cancelled)
	if err != nil {
		return fmt.Errorf("set class cancelled: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set class cancelled: slot %s not found", id)
	}

	return nil
}

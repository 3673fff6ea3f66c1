package sqldb

import (
	"context"
	"encoding/json"
	"fmt"

	"Book_Club/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Publish marshals payload and stores it as a pending event. Call it on a transaction-scoped repository.
func (r *OutboxRepository) Publish(ctx context.Context, eventType string, aggregateID uint64, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return r.Insert(ctx, &model.OutboxEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     string(b),
		Status:      model.OutboxPending,
	})
}

func (r *OutboxRepository) Insert(ctx context.Context, ev *model.OutboxEvent) error {
	return r.DB.WithContext(ctx).Create(ev).Error
}

// ListPending returns pending events and failed events that still have retries left.
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize, maxRetry int) ([]model.OutboxEvent, error) {
	var list []model.OutboxEvent
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

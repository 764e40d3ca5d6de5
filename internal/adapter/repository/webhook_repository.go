package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// webhookRepository implements the WebhookRepository interface
type webhookRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookRepository {
	return &webhookRepository{
		db:     db,
		logger: logger,
	}
}

// SaveEvent inserts a delivery keyed by the gateway's event id. Replays hit
// the unique index and are ignored.
func (r *webhookRepository) SaveEvent(ctx context.Context, eventID, eventType, reference string, data json.RawMessage) (bool, error) {
	var eventData model.JSONB
	if err := json.Unmarshal(data, &eventData); err != nil {
		r.logger.Warn("failed to parse webhook payload",
			zap.String("event_id", eventID),
			zap.Error(err))
		eventData = model.JSONB{}
	}

	event := &model.GatewayWebhookEvent{
		GatewayEventID: eventID,
		EventType:      eventType,
		Reference:      reference,
		Status:         model.WebhookStatusPending,
		Data:           eventData,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)

	if result.Error != nil {
		r.logger.Error("failed to save webhook event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to save webhook event: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetEvent returns a stored delivery, or nil
func (r *webhookRepository) GetEvent(ctx context.Context, eventID string) (*model.GatewayWebhookEvent, error) {
	var event model.GatewayWebhookEvent

	err := r.db.WithContext(ctx).
		Where("gateway_event_id = ?", eventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

// MarkProcessed records successful application of a delivery
func (r *webhookRepository) MarkProcessed(ctx context.Context, eventID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.GatewayWebhookEvent{}).
		Where("gateway_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":       model.WebhookStatusCompleted,
			"processed_at": &now,
		})

	if result.Error != nil {
		r.logger.Error("failed to mark webhook as processed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook as processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}

// MarkFailed records a failed application attempt
func (r *webhookRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	errorMsg := cause.Error()

	result := r.db.WithContext(ctx).
		Model(&model.GatewayWebhookEvent{}).
		Where("gateway_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":              model.WebhookStatusFailed,
			"processing_attempts": gorm.Expr("processing_attempts + 1"),
			"last_error":          &errorMsg,
		})

	if result.Error != nil {
		r.logger.Error("failed to mark webhook as failed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook as failed: %w", result.Error)
	}

	return nil
}

package repository

import (
	"context"
	"encoding/json"

	"github.com/itfy/evoting/internal/domain/model"
)

// WebhookRepository stores gateway webhook deliveries for idempotent replay
// handling and audit.
type WebhookRepository interface {
	// SaveEvent inserts a delivery keyed by the gateway's event id. A
	// replayed delivery is ignored and reported with created=false.
	SaveEvent(ctx context.Context, eventID, eventType, reference string, data json.RawMessage) (created bool, err error)

	// GetEvent returns a stored delivery, or nil when unknown.
	GetEvent(ctx context.Context, eventID string) (*model.GatewayWebhookEvent, error)

	// MarkProcessed records successful application of a delivery.
	MarkProcessed(ctx context.Context, eventID string) error

	// MarkFailed records a failed application attempt and its error.
	MarkFailed(ctx context.Context, eventID string, cause error) error
}

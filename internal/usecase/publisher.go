package usecase

import "context"

// Topics published by the ledger and voting services.
const (
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
	TopicVoteCast         = "vote.cast"
)

// Publisher fans domain events out to interested consumers. Publishing is
// best-effort; a failed publish never rolls back the state change it
// announces.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

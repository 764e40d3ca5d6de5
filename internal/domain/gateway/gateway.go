package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InitializeRequest starts a hosted-checkout session for an order.
type InitializeRequest struct {
	Reference string
	Email     string
	Amount    decimal.Decimal
	Currency  string
	Metadata  map[string]interface{}
}

// InitializeResponse carries the hosted-checkout redirect for the voter.
type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
}

// ChargeNotification is the shape the ledger depends on from asynchronous
// gateway notifications: {reference, amount, status, channel, paid_at}.
type ChargeNotification struct {
	Reference string
	Status    string
	Channel   string
	Amount    decimal.Decimal
	PaidAt    *time.Time
}

// Client is the payment gateway collaborator. Card handling, 3-D Secure and
// consent flows all live behind the hosted checkout; the ledger only sees
// references and amounts.
type Client interface {
	// InitializeTransaction opens a checkout session and returns the URL
	// the voter is redirected to.
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)

	// VerifySignature authenticates a webhook body against its signature
	// header. Deliveries failing this check are rejected outright.
	VerifySignature(body []byte, signature string) bool
}

package errors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/itfy/evoting/internal/domain/model"
)

// DuplicateOrderError is returned when a non-terminal payment already exists
// for the same (voter email, event, category) tuple.
type DuplicateOrderError struct {
	VoterEmail string
	EventID    int64
	CategoryID int64
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("duplicate order: an open payment already exists for %s in event %d category %d",
		e.VoterEmail, e.EventID, e.CategoryID)
}

// NewDuplicateOrderError creates a new DuplicateOrderError
func NewDuplicateOrderError(voterEmail string, eventID, categoryID int64) *DuplicateOrderError {
	return &DuplicateOrderError{VoterEmail: voterEmail, EventID: eventID, CategoryID: categoryID}
}

// InvalidBundleError is returned when an ordered bundle is retired or belongs
// to a different category than the order.
type InvalidBundleError struct {
	BundleID int64
	Reason   string
}

func (e *InvalidBundleError) Error() string {
	return fmt.Sprintf("invalid bundle %d: %s", e.BundleID, e.Reason)
}

// InvalidCouponError is returned when a coupon cannot be applied to an order.
type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("invalid coupon %q: %s", e.Code, e.Reason)
}

// PaymentNotFoundError is returned for an unknown payment reference.
type PaymentNotFoundError struct {
	Reference string
}

func (e *PaymentNotFoundError) Error() string {
	return fmt.Sprintf("payment not found: %s", e.Reference)
}

// PaymentExpiredError is returned when a confirmation arrives after the
// pending window has lapsed.
type PaymentExpiredError struct {
	Reference string
}

func (e *PaymentExpiredError) Error() string {
	return fmt.Sprintf("payment %s expired before confirmation", e.Reference)
}

// PaymentAlreadyTerminalError is returned when a transition targets a payment
// already in a terminal state.
type PaymentAlreadyTerminalError struct {
	Reference string
	Status    model.PaymentStatus
}

func (e *PaymentAlreadyTerminalError) Error() string {
	return fmt.Sprintf("payment %s is already terminal (%s)", e.Reference, e.Status)
}

// FraudSuspectedError is returned when a webhook payload amount does not
// match the payment's final amount. The payment stays pending for manual
// review; it is never auto-confirmed.
type FraudSuspectedError struct {
	Reference      string
	ExpectedAmount decimal.Decimal
	ReportedAmount decimal.Decimal
}

func (e *FraudSuspectedError) Error() string {
	return fmt.Sprintf("fraud suspected on payment %s: gateway reported %s, expected %s",
		e.Reference, e.ReportedAmount.String(), e.ExpectedAmount.String())
}

// NotFoundError is returned for unknown entities referenced by an operation.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

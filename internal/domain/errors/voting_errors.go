package errors

import (
	"fmt"

	"github.com/itfy/evoting/internal/domain/model"
)

// InsufficientVotesError is returned when a cast asks for more votes than the
// payment has remaining.
type InsufficientVotesError struct {
	Requested int
	Remaining int
}

func (e *InsufficientVotesError) Error() string {
	return fmt.Sprintf("insufficient votes: requested %d, remaining %d", e.Requested, e.Remaining)
}

// NewInsufficientVotesError creates a new InsufficientVotesError
func NewInsufficientVotesError(requested, remaining int) *InsufficientVotesError {
	return &InsufficientVotesError{Requested: requested, Remaining: remaining}
}

// PaymentNotSuccessfulError is returned when a cast targets a payment that is
// not in success state.
type PaymentNotSuccessfulError struct {
	Status model.PaymentStatus
}

func (e *PaymentNotSuccessfulError) Error() string {
	return fmt.Sprintf("payment is not successful (status %s)", e.Status)
}

// VotingClosedError is returned when the category is not open for voting or
// the current time is outside its voting window.
type VotingClosedError struct {
	CategoryID int64
}

func (e *VotingClosedError) Error() string {
	return fmt.Sprintf("voting is closed for category %d", e.CategoryID)
}

// MultipleVotingNotAllowedError is returned when a payment in a
// single-candidate category tries to fund a second distinct candidate.
type MultipleVotingNotAllowedError struct {
	CategoryID       int64
	FundedCandidates int
}

func (e *MultipleVotingNotAllowedError) Error() string {
	return fmt.Sprintf("category %d does not allow voting for multiple candidates", e.CategoryID)
}

// CandidateCategoryMismatchError is returned when the candidate is not
// nominated in the payment's category.
type CandidateCategoryMismatchError struct {
	CandidateID int64
	CategoryID  int64
}

func (e *CandidateCategoryMismatchError) Error() string {
	return fmt.Sprintf("candidate %d is not nominated in category %d", e.CandidateID, e.CategoryID)
}

// VoteCountOutOfRangeError is returned when a cast violates the category's
// per-cast min/max vote rules.
type VoteCountOutOfRangeError struct {
	Requested int
	Min       int
	Max       int
}

func (e *VoteCountOutOfRangeError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("votes per cast must be between %d and %d, got %d", e.Min, e.Max, e.Requested)
	}
	return fmt.Sprintf("votes per cast must be at least %d, got %d", e.Min, e.Requested)
}

package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// CastVotesInput identifies the funding payment, the target candidate and
// how many of the remaining votes to spend.
type CastVotesInput struct {
	Reference   string
	CandidateID int64
	Votes       int
	VoterIP     string
}

// CastVotesOutput reports the recorded vote and the allowance left on the
// payment afterwards.
type CastVotesOutput struct {
	Vote           *model.Vote
	VotesRemaining int
}

// VoteService spends purchased vote allowances on candidates. Window and
// nomination rules are checked here; everything that races with concurrent
// casts is re-checked inside the repository transaction.
type VoteService struct {
	paymentRepo   repository.PaymentRepository
	categoryRepo  repository.CategoryRepository
	candidateRepo repository.CandidateRepository
	publisher     Publisher
	clock         Clock
	logger        *zap.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	paymentRepo repository.PaymentRepository,
	categoryRepo repository.CategoryRepository,
	candidateRepo repository.CandidateRepository,
	publisher Publisher,
	clock Clock,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		paymentRepo:   paymentRepo,
		categoryRepo:  categoryRepo,
		candidateRepo: candidateRepo,
		publisher:     publisher,
		clock:         clock,
		logger:        logger,
	}
}

// CastVotes atomically spends part of a payment's allowance on a candidate.
func (s *VoteService) CastVotes(ctx context.Context, input CastVotesInput) (*CastVotesOutput, error) {
	now := s.clock.Now()

	payment, err := s.paymentRepo.GetByReference(ctx, input.Reference)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &errors.PaymentNotFoundError{Reference: input.Reference}
	}

	category, err := s.categoryRepo.GetByID(ctx, payment.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: payment.CategoryID}
	}
	if !category.VotingOpenAt(now) {
		return nil, &errors.VotingClosedError{CategoryID: category.ID}
	}

	if input.Votes < category.MinVotes || (category.MaxVotes > 0 && input.Votes > category.MaxVotes) {
		return nil, &errors.VoteCountOutOfRangeError{
			Requested: input.Votes,
			Min:       category.MinVotes,
			Max:       category.MaxVotes,
		}
	}

	nominated, err := s.candidateRepo.IsNominated(ctx, input.CandidateID, category.ID)
	if err != nil {
		return nil, err
	}
	if !nominated {
		return nil, &errors.CandidateCategoryMismatchError{
			CandidateID: input.CandidateID,
			CategoryID:  category.ID,
		}
	}

	rules := repository.CastRules{AllowMultiple: category.AllowMultiple}
	updated, vote, err := s.paymentRepo.SpendVotes(ctx, payment.ID, input.CandidateID, input.Votes, input.VoterIP, rules, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("votes cast",
		zap.String("reference", payment.Reference),
		zap.Int64("candidate_id", input.CandidateID),
		zap.Int("votes", input.Votes),
		zap.Int("remaining", updated.VotesRemaining()))

	if err := s.publisher.Publish(ctx, TopicVoteCast, vote); err != nil {
		s.logger.Warn("failed to publish vote.cast",
			zap.String("reference", payment.Reference),
			zap.Error(err))
	}

	return &CastVotesOutput{
		Vote:           vote,
		VotesRemaining: updated.VotesRemaining(),
	}, nil
}

// GetBalance returns the allowance state of a payment.
func (s *VoteService) GetBalance(ctx context.Context, reference string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &errors.PaymentNotFoundError{Reference: reference}
	}
	return payment, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

const standingsCacheTTL = 10 * time.Second

// WinnerResult is the outcome of resolving a category. Winners holds one
// entry normally, several when the category allows ties, and the full tied
// set when resolution awaits a manual decision.
type WinnerResult struct {
	CategoryID      int64                       `json:"category_id"`
	Winners         []repository.CandidateTally `json:"winners"`
	Tie             bool                        `json:"tie"`
	TieBreakApplied model.TieBreakMethod        `json:"tie_break_applied,omitempty"`
	PendingManual   bool                        `json:"pending_manual"`
}

// ResolutionService reads standings and resolves category winners under the
// category's tie rules.
type ResolutionService struct {
	voteRepo     repository.VoteRepository
	categoryRepo repository.CategoryRepository
	cache        repository.CacheRepository
	logger       *zap.Logger
}

// NewResolutionService creates a new resolution service
func NewResolutionService(
	voteRepo repository.VoteRepository,
	categoryRepo repository.CategoryRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *ResolutionService {
	return &ResolutionService{
		voteRepo:     voteRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

// ListStandings returns the live tally for a category, served from a short
// lived cache to keep hot leaderboards off the database.
func (s *ResolutionService) ListStandings(ctx context.Context, categoryID int64) ([]repository.CandidateTally, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: categoryID}
	}

	cacheKey := fmt.Sprintf("standings:%d", categoryID)
	if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
		s.logger.Warn("standings cache read failed", zap.Int64("category_id", categoryID), zap.Error(err))
	} else if cached != "" {
		var tallies []repository.CandidateTally
		if err := json.Unmarshal([]byte(cached), &tallies); err == nil {
			return tallies, nil
		}
	}

	tallies, err := s.voteRepo.TallyByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(tallies); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(encoded), standingsCacheTTL); err != nil {
			s.logger.Warn("standings cache write failed", zap.Int64("category_id", categoryID), zap.Error(err))
		}
	}

	return tallies, nil
}

// DetermineWinner resolves the winner of a closed category. Ties either
// stand, break by the category's configured method, or wait for a manual
// decision.
func (s *ResolutionService) DetermineWinner(ctx context.Context, categoryID int64) (*WinnerResult, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: categoryID}
	}
	if category.Status != model.CategoryStatusVotingClosed && category.Status != model.CategoryStatusCompleted {
		return nil, &errors.VotingClosedError{CategoryID: categoryID}
	}

	tallies, err := s.voteRepo.TallyByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(tallies) == 0 {
		return &WinnerResult{CategoryID: categoryID}, nil
	}

	top := tallies[0].TotalVotes
	tied := make([]repository.CandidateTally, 0, 1)
	for _, tally := range tallies {
		if tally.TotalVotes != top {
			break
		}
		tied = append(tied, tally)
	}

	result := &WinnerResult{CategoryID: categoryID}

	if len(tied) == 1 {
		result.Winners = tied
		return result, nil
	}

	result.Tie = true
	if category.AllowTie {
		result.Winners = tied
		return result, nil
	}

	result.TieBreakApplied = category.TieBreakMethod
	switch category.TieBreakMethod {
	case model.TieBreakTimestamp:
		winner := tied[0]
		for _, tally := range tied[1:] {
			if tally.EarliestCastAt.Before(winner.EarliestCastAt) {
				winner = tally
			}
		}
		result.Winners = []repository.CandidateTally{winner}
	case model.TieBreakRandom:
		result.Winners = []repository.CandidateTally{tied[rand.Intn(len(tied))]}
	case model.TieBreakManual:
		result.Winners = tied
		result.PendingManual = true
	default:
		result.Winners = tied
		result.PendingManual = true
	}

	s.logger.Info("winner resolved",
		zap.Int64("category_id", categoryID),
		zap.Bool("tie", result.Tie),
		zap.String("tie_break", string(result.TieBreakApplied)),
		zap.Bool("pending_manual", result.PendingManual))

	return result, nil
}

package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

const (
	votingCodeAttempts = 5
	votingCodeHoldTTL  = time.Hour
)

// CandidateService manages candidates, their category nominations and their
// human-enterable voting codes.
type CandidateService struct {
	candidateRepo repository.CandidateRepository
	categoryRepo  repository.CategoryRepository
	eventRepo     repository.EventRepository
	cache         repository.CacheRepository
	logger        *zap.Logger
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	candidateRepo repository.CandidateRepository,
	categoryRepo repository.CategoryRepository,
	eventRepo repository.EventRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		categoryRepo:  categoryRepo,
		eventRepo:     eventRepo,
		cache:         cache,
		logger:        logger,
	}
}

// CreateCandidate registers a candidate with a freshly generated voting code
// and nominates it into the given categories. Every category must belong to
// the candidate's event.
func (s *CandidateService) CreateCandidate(ctx context.Context, candidate *model.Candidate, categoryIDs []int64) error {
	event, err := s.eventRepo.GetByID(ctx, candidate.EventID)
	if err != nil {
		return err
	}
	if event == nil {
		return &errors.NotFoundError{Entity: "event", ID: candidate.EventID}
	}

	for _, categoryID := range categoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return &errors.NotFoundError{Entity: "category", ID: categoryID}
		}
		if category.EventID != candidate.EventID {
			return fmt.Errorf("category %d belongs to a different event", categoryID)
		}
	}

	code, err := s.generateVotingCode(ctx, candidate.Name)
	if err != nil {
		return err
	}
	candidate.VotingCode = code

	if err := s.candidateRepo.Create(ctx, candidate, categoryIDs); err != nil {
		return err
	}

	s.logger.Info("candidate created",
		zap.Int64("candidate_id", candidate.ID),
		zap.String("voting_code", candidate.VotingCode),
		zap.Int("categories", len(categoryIDs)))
	return nil
}

// GetCandidate returns a candidate by id.
func (s *CandidateService) GetCandidate(ctx context.Context, id int64) (*model.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, &errors.NotFoundError{Entity: "candidate", ID: id}
	}
	return candidate, nil
}

// generateVotingCode derives a code from the candidate's name: the first two
// characters uppercased, the first three digits of the name's character sum
// and three random digits. On a collision the name is reversed and a fresh
// code drawn. The winner is reserved in the cache so two concurrent creations
// cannot pick the same code; the unique database index remains the final
// arbiter.
func (s *CandidateService) generateVotingCode(ctx context.Context, name string) (string, error) {
	runes := []rune(name)
	if len(runes) < 2 {
		return "", fmt.Errorf("candidate name must be at least two characters long")
	}

	for attempt := 0; attempt < votingCodeAttempts; attempt++ {
		code, err := votingCodeFrom(runes)
		if err != nil {
			return "", err
		}

		reserved, err := s.cache.SetNX(ctx, "voting_code:"+code, "1", votingCodeHoldTTL)
		if err != nil {
			s.logger.Warn("voting code reservation failed, using code unreserved",
				zap.String("code", code),
				zap.Error(err))
			return code, nil
		}
		if reserved {
			return code, nil
		}

		runes = reverseRunes(runes)
	}
	return "", fmt.Errorf("could not generate a unique voting code after %d attempts", votingCodeAttempts)
}

func votingCodeFrom(name []rune) (string, error) {
	namePart := strings.ToUpper(string(name[:2]))

	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	digestPart := strconv.Itoa(sum)
	if len(digestPart) > 3 {
		digestPart = digestPart[:3]
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", fmt.Errorf("failed to draw random digits: %w", err)
	}
	randomPart := strconv.Itoa(int(n.Int64()) + 100)

	return namePart + digestPart + randomPart, nil
}

func reverseRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}

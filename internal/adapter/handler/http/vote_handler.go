package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/usecase"
)

// CastVotesRequest spends part of a payment's allowance on a candidate.
type CastVotesRequest struct {
	Reference   string `json:"reference" validate:"required"`
	CandidateID int64  `json:"candidate_id" validate:"required,gt=0"`
	Votes       int    `json:"votes" validate:"required,gt=0"`
}

// VoteHandler exposes vote casting endpoints.
type VoteHandler struct {
	votes  *usecase.VoteService
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votes *usecase.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		votes:  votes,
		logger: logger,
	}
}

// CastVotes records a vote funded by a successful payment.
func (h *VoteHandler) CastVotes(c echo.Context) error {
	var req CastVotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.votes.CastVotes(c.Request().Context(), usecase.CastVotesInput{
		Reference:   req.Reference,
		CandidateID: req.CandidateID,
		Votes:       req.Votes,
		VoterIP:     c.RealIP(),
	})
	if err != nil {
		h.logger.Warn("vote cast rejected",
			zap.String("reference", req.Reference),
			zap.Int64("candidate_id", req.CandidateID),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"vote":            output.Vote,
		"votes_remaining": output.VotesRemaining,
	})
}

// GetBalance returns how many votes remain on a payment.
func (h *VoteHandler) GetBalance(c echo.Context) error {
	reference := c.Param("reference")

	payment, err := h.votes.GetBalance(c.Request().Context(), reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reference":       payment.Reference,
		"status":          payment.Status,
		"votes_granted":   payment.VotesGranted,
		"votes_cast":      payment.VotesCast,
		"votes_remaining": payment.VotesRemaining(),
	})
}

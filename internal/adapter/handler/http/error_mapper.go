package http

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itfy/evoting/internal/domain/errors"
)

// httpStatus maps a domain error to the HTTP status it should produce.
func httpStatus(err error) int {
	var (
		notFound        *errors.NotFoundError
		paymentNotFound *errors.PaymentNotFoundError
		duplicateOrder  *errors.DuplicateOrderError
		invalidBundle   *errors.InvalidBundleError
		invalidCoupon   *errors.InvalidCouponError
		votingClosed    *errors.VotingClosedError
		outOfRange      *errors.VoteCountOutOfRangeError
		mismatch        *errors.CandidateCategoryMismatchError
		insufficient    *errors.InsufficientVotesError
		notSuccessful   *errors.PaymentNotSuccessfulError
		multipleVoting  *errors.MultipleVotingNotAllowedError
		expired         *errors.PaymentExpiredError
		alreadyTerminal *errors.PaymentAlreadyTerminalError
	)

	switch {
	case stderrors.As(err, &notFound), stderrors.As(err, &paymentNotFound):
		return http.StatusNotFound
	case stderrors.As(err, &invalidBundle), stderrors.As(err, &invalidCoupon),
		stderrors.As(err, &outOfRange), stderrors.As(err, &mismatch):
		return http.StatusBadRequest
	case stderrors.As(err, &duplicateOrder), stderrors.As(err, &votingClosed),
		stderrors.As(err, &insufficient), stderrors.As(err, &notSuccessful),
		stderrors.As(err, &multipleVoting), stderrors.As(err, &alreadyTerminal):
		return http.StatusConflict
	case stderrors.As(err, &expired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error as a JSON response. Internal errors are
// masked with a generic message.
func respondError(c echo.Context, err error) error {
	status := httpStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.JSON(status, echo.Map{
		"error": message,
	})
}

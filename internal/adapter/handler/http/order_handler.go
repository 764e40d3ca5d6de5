package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/usecase"
)

// CreateOrderRequest is the checkout payload a voter submits.
type CreateOrderRequest struct {
	VoterEmail   string  `json:"voter_email" validate:"required,email"`
	VoterContact *string `json:"voter_contact,omitempty"`
	EventID      int64   `json:"event_id" validate:"required,gt=0"`
	CategoryID   int64   `json:"category_id" validate:"required,gt=0"`
	BundleIDs    []int64 `json:"bundle_ids" validate:"required,min=1,dive,gt=0"`
	CouponCode   string  `json:"coupon_code,omitempty"`
}

// OrderHandler exposes checkout endpoints.
type OrderHandler struct {
	orders *usecase.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *usecase.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// CreateOrder opens a pending payment and returns the checkout redirect.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.orders.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		VoterEmail:   req.VoterEmail,
		VoterIP:      c.RealIP(),
		VoterContact: req.VoterContact,
		EventID:      req.EventID,
		CategoryID:   req.CategoryID,
		BundleIDs:    req.BundleIDs,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		h.logger.Warn("order creation rejected",
			zap.String("voter_email", req.VoterEmail),
			zap.Int64("category_id", req.CategoryID),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"reference":         output.Payment.Reference,
		"final_amount":      output.Payment.FinalAmount,
		"discount_amount":   output.Payment.DiscountAmount,
		"votes_granted":     output.Payment.VotesGranted,
		"expires_at":        output.Payment.ExpiresAt,
		"authorization_url": output.AuthorizationURL,
		"access_code":       output.AccessCode,
	})
}

// GetOrder returns the payment for a reference, including the remaining
// allowance.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	reference := c.Param("reference")

	payment, err := h.orders.GetOrder(c.Request().Context(), reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payment":         payment,
		"votes_remaining": payment.VotesRemaining(),
	})
}

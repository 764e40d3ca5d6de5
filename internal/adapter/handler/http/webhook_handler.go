package http

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/usecase"
)

// paystackEnvelope is the wire shape of Paystack webhook deliveries. Amounts
// arrive in kobo.
type paystackEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		ID        int64      `json:"id"`
		Reference string     `json:"reference"`
		Status    string     `json:"status"`
		Amount    int64      `json:"amount"`
		Channel   string     `json:"channel"`
		PaidAt    *time.Time `json:"paid_at"`
	} `json:"data"`
}

// WebhookHandler receives asynchronous gateway notifications. Deliveries
// failing signature verification are rejected; business rejections are
// acknowledged with 200 so the gateway stops redelivering them.
type WebhookHandler struct {
	ledger  *usecase.LedgerService
	gateway gateway.Client
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(ledger *usecase.LedgerService, gatewayClient gateway.Client, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		ledger:  ledger,
		gateway: gatewayClient,
		logger:  logger,
	}
}

// Handle processes one Paystack webhook delivery.
func (h *WebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "failed to read request body",
		})
	}

	signature := c.Request().Header.Get("X-Paystack-Signature")
	if !h.gateway.VerifySignature(body, signature) {
		h.logger.Warn("webhook signature verification failed",
			zap.String("remote_ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "invalid signature",
		})
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Warn("failed to parse webhook payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid payload",
		})
	}

	notif := gateway.ChargeNotification{
		Reference: envelope.Data.Reference,
		Status:    envelope.Data.Status,
		Channel:   envelope.Data.Channel,
		Amount:    decimal.NewFromInt(envelope.Data.Amount).Div(decimal.NewFromInt(100)),
		PaidAt:    envelope.Data.PaidAt,
	}
	eventID := fmt.Sprintf("%s:%d", envelope.Event, envelope.Data.ID)

	err = h.ledger.ProcessNotification(c.Request().Context(), eventID, envelope.Event, notif, body)
	if err != nil {
		if isBusinessRejection(err) {
			// Redelivering won't change the outcome, so acknowledge and
			// keep the rejection in the webhook audit log.
			h.logger.Warn("webhook rejected by ledger, acknowledging",
				zap.String("event_id", eventID),
				zap.String("reference", notif.Reference),
				zap.Error(err))
			return c.JSON(http.StatusOK, echo.Map{
				"status": "acknowledged",
			})
		}

		h.logger.Error("failed to process webhook",
			zap.String("event_id", eventID),
			zap.String("reference", notif.Reference),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to process webhook",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// isBusinessRejection separates permanent rejections from transient faults.
// Only transient faults should make the gateway retry the delivery.
func isBusinessRejection(err error) bool {
	var (
		notFound        *domainErrors.PaymentNotFoundError
		expired         *domainErrors.PaymentExpiredError
		alreadyTerminal *domainErrors.PaymentAlreadyTerminalError
		fraud           *domainErrors.FraudSuspectedError
	)
	return stderrors.As(err, &notFound) ||
		stderrors.As(err, &expired) ||
		stderrors.As(err, &alreadyTerminal) ||
		stderrors.As(err, &fraud)
}

package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/gateway"
)

const defaultBaseURL = "https://api.paystack.co"

// koboPerNaira converts major-unit amounts to the minor units the API wants.
var koboPerNaira = decimal.NewFromInt(100)

// Client talks to the Paystack REST API and verifies its webhook signatures.
type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Paystack client
func NewClient(baseURL, secretKey, callbackURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		secretKey:   secretKey,
		callbackURL: callbackURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type initializeRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Reference   string                 `json:"reference"`
	Currency    string                 `json:"currency"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeTransaction opens a hosted-checkout session. Amounts are sent in
// kobo.
func (c *Client) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	payload := initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.Mul(koboPerNaira).IntPart(),
		Reference:   req.Reference,
		Currency:    req.Currency,
		CallbackURL: c.callbackURL,
		Metadata:    req.Metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway initialize returned non-200",
			zap.Int("status_code", resp.StatusCode),
			zap.String("reference", req.Reference))
		return nil, fmt.Errorf("gateway initialize failed with status %d", resp.StatusCode)
	}

	var parsed initializeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if !parsed.Status {
		return nil, fmt.Errorf("gateway rejected initialize: %s", parsed.Message)
	}

	return &gateway.InitializeResponse{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
	}, nil
}

// VerifySignature checks the HMAC-SHA512 hex digest Paystack sends in the
// X-Paystack-Signature header.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

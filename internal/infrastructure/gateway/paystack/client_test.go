package paystack_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/infrastructure/gateway/paystack"
)

func TestClient_InitializeTransaction(t *testing.T) {
	logger := zap.NewNop()

	t.Run("sends kobo amounts and returns the checkout redirect", func(t *testing.T) {
		var received map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-1"}}`))
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test_abc", "https://example.com/done", logger)

		resp, err := client.InitializeTransaction(context.Background(), gateway.InitializeRequest{
			Reference: "ref-1",
			Email:     "voter@example.com",
			Amount:    decimal.RequireFromString("80.00"),
			Currency:  "NGN",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/abc", resp.AuthorizationURL)
		assert.Equal(t, "abc", resp.AccessCode)
		assert.Equal(t, float64(8000), received["amount"])
		assert.Equal(t, "ref-1", received["reference"])
	})

	t.Run("surfaces gateway rejections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "bad-key", "", logger)

		_, err := client.InitializeTransaction(context.Background(), gateway.InitializeRequest{
			Reference: "ref-1",
			Email:     "voter@example.com",
			Amount:    decimal.RequireFromString("80.00"),
			Currency:  "NGN",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid key")
	})
}

func TestClient_VerifySignature(t *testing.T) {
	logger := zap.NewNop()
	client := paystack.NewClient("", "secret", "", logger)
	body := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("secret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature(body, valid))
	assert.False(t, client.VerifySignature(body, "deadbeef"))
	assert.False(t, client.VerifySignature(body, ""))
	assert.False(t, client.VerifySignature([]byte(`tampered`), valid))
}

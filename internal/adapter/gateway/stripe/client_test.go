package stripe_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luma-events/ticketing-backend/internal/adapter/gateway/stripe"
)

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "22000", r.PostForm.Get("amount"))
		assert.Equal(t, "brl", r.PostForm.Get("currency"))
		assert.Equal(t, "u1", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pi_123","client_secret":"pi_123_secret"}`)
	}))
	defer server.Close()

	client := stripe.NewClientWithBaseURL("sk_test_123", "whsec_x", server.URL)

	intent, err := client.CreateIntent(context.Background(), 22000, "brl", map[string]string{"user_id": "u1"})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
}

func TestCreateIntent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined.","type":"card_error"}}`)
	}))
	defer server.Close()

	client := stripe.NewClientWithBaseURL("sk_test_123", "whsec_x", server.URL)

	_, err := client.CreateIntent(context.Background(), 100, "brl", nil)

	assert.ErrorContains(t, err, "402")
	assert.ErrorContains(t, err, "declined")
}

func TestCancelIntent(t *testing.T) {
	var calledPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledPath = r.URL.Path
		fmt.Fprint(w, `{"id":"pi_123","client_secret":""}`)
	}))
	defer server.Close()

	client := stripe.NewClientWithBaseURL("sk_test_123", "whsec_x", server.URL)

	err := client.CancelIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, "/v1/payment_intents/pi_123/cancel", calledPath)
}

func TestVerifyWebhook_Valid(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_secret", ts, payload))

	event, err := client.VerifyWebhook(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
}

func TestVerifyWebhook_WrongSecret(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))

	_, err := client.VerifyWebhook(payload, header)

	assert.ErrorContains(t, err, "signature mismatch")
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_secret", ts, payload))

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
	_, err := client.VerifyWebhook(tampered, header)

	assert.ErrorContains(t, err, "signature mismatch")
}

func TestVerifyWebhook_StaleTimestamp(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	ts := time.Now().Add(-time.Hour).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_secret", ts, payload))

	_, err := client.VerifyWebhook(payload, header)

	assert.ErrorContains(t, err, "tolerance")
}

func TestVerifyWebhook_MissingHeader(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	_, err := client.VerifyWebhook([]byte(`{}`), "")

	assert.Error(t, err)
}

func TestVerifyWebhook_MalformedHeader(t *testing.T) {
	client := stripe.NewClient("sk_test_123", "whsec_secret")

	_, err := client.VerifyWebhook([]byte(`{}`), "not-a-signature")

	assert.Error(t, err)
}

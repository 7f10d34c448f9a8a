// Package stripe is a thin client for the parts of the Stripe API the
// checkout flow needs: payment intents and webhook signature verification.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

const defaultBaseURL = "https://api.stripe.com"

// signatureTolerance bounds how stale a webhook timestamp may be before the
// delivery is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

type Client struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewClient(secretKey, webhookSecret string) *Client {
	return &Client{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL points the client at a different API host. Used by
// tests and stripe-mock setups.
func NewClientWithBaseURL(secretKey, webhookSecret, baseURL string) *Client {
	c := NewClient(secretKey, webhookSecret)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var resp intentResponse
	if err := c.post(ctx, "/v1/payment_intents", form, &resp); err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{ID: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

func (c *Client) CancelIntent(ctx context.Context, intentID string) error {
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", url.PathEscape(intentID))
	return c.post(ctx, path, url.Values{}, &intentResponse{})
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}

		return fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the Stripe-Signature header (t=<unix>,v1=<hmac> pairs)
// against the webhook secret. The signed message is "<t>.<raw body>", so the
// payload must be the exact bytes read off the wire.
func (c *Client) VerifyWebhook(payload []byte, signatureHeader string) (*domain.GatewayEvent, error) {
	if signatureHeader == "" {
		return nil, errors.New("missing signature header")
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	if time.Since(time.Unix(timestamp, 0)) > signatureTolerance {
		return nil, errors.New("signature timestamp outside tolerance")
	}

	expected := computeSignature(c.webhookSecret, timestamp, payload)

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			valid = true
			break
		}
	}

	if !valid {
		return nil, errors.New("signature mismatch")
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}

	return &domain.GatewayEvent{
		ID:       envelope.ID,
		Type:     envelope.Type,
		IntentID: envelope.Data.Object.ID,
	}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}

		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, errors.New("malformed signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, errors.New("malformed signature header")
	}

	return timestamp, signatures, nil
}

func computeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

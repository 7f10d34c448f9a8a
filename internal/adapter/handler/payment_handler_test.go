package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luma-events/ticketing-backend/internal/adapter/handler"
	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/ports/mocks"
	"github.com/luma-events/ticketing-backend/internal/core/services"
)

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()

	claims := handler.Claims{
		UserID: userID.String(),
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return token
}

type paymentFixture struct {
	catalog *mocks.CatalogRepository
	ledger  *mocks.LedgerRepository
	gateway *mocks.PaymentGateway
	handler *handler.PaymentHandler
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	catalog := mocks.NewCatalogRepository(t)
	ledger := mocks.NewLedgerRepository(t)
	gateway := mocks.NewPaymentGateway(t)
	redisClient, _ := redismock.NewClientMock()

	fees := services.NewFeeCalculator(decimal.NewFromInt(10))
	checkout := services.NewCheckoutService(catalog, ledger, gateway, fees, "brl")
	webhook := services.NewWebhookService(gateway, ledger, redisClient, time.Hour)

	return &paymentFixture{
		catalog: catalog,
		ledger:  ledger,
		gateway: gateway,
		handler: handler.NewPaymentHandler(checkout, webhook),
	}
}

func TestCreatePaymentIntent_RequiresAuth(t *testing.T) {
	f := newPaymentFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment-intent/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.Authenticate(testJWTSecret, f.handler.CreatePaymentIntent)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	f := newPaymentFixture(t)

	userID := uuid.New()
	eventID := uuid.New()

	f.gateway.On("CreateIntent", mock.Anything, int64(22000), "brl", mock.Anything).
		Return(&domain.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)
	f.catalog.On("GetEvent", mock.Anything, eventID).Return(&domain.Event{ID: eventID}, nil)
	f.catalog.On("FirstTicketForEvent", mock.Anything, eventID).Return(&domain.Ticket{ID: uuid.New()}, nil)
	f.ledger.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil)

	body := fmt.Sprintf(`{"items":[{"event_id":"%s","price":100.00,"quantity":2}]}`, eventID)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment-intent/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
	rec := httptest.NewRecorder()

	handler.Authenticate(testJWTSecret, f.handler.CreatePaymentIntent)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pi_1_secret")
	assert.Contains(t, rec.Body.String(), "payment_id")
}

func TestCreatePaymentIntent_EmptyCart(t *testing.T) {
	f := newPaymentFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment-intent/", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New()))
	rec := httptest.NewRecorder()

	handler.Authenticate(testJWTSecret, f.handler.CreatePaymentIntent)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestWebhook_InvalidSignature(t *testing.T) {
	f := newPaymentFixture(t)

	f.gateway.On("VerifyWebhook", mock.Anything, "bad").Return(nil, errors.New("signature mismatch"))

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "bad")
	rec := httptest.NewRecorder()

	f.handler.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_UnknownIntent(t *testing.T) {
	f := newPaymentFixture(t)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded"}`

	f.gateway.On("VerifyWebhook", []byte(payload), "sig").
		Return(&domain.GatewayEvent{ID: "evt_1", Type: "payment_intent.succeeded", IntentID: "pi_missing"}, nil)
	f.ledger.On("SettleIntent", mock.Anything, "pi_missing", domain.PaymentCompleted, domain.OrderPaid).
		Return(0, fmt.Errorf("payment: %w", domain.ErrNotFound))

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "sig")
	rec := httptest.NewRecorder()

	f.handler.Webhook(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhook_Success(t *testing.T) {
	f := newPaymentFixture(t)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded"}`

	f.gateway.On("VerifyWebhook", []byte(payload), "sig").
		Return(&domain.GatewayEvent{ID: "evt_1", Type: "payment_intent.succeeded", IntentID: "pi_1"}, nil)
	f.ledger.On("SettleIntent", mock.Anything, "pi_1", domain.PaymentCompleted, domain.OrderPaid).Return(1, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "sig")
	rec := httptest.NewRecorder()

	f.handler.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "success")
}

package ports

import (
	"context"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

// PaymentGateway is the thin adapter to the external payment processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	CancelIntent(ctx context.Context, intentID string) error

	// VerifyWebhook checks the delivery signature against the shared secret
	// and returns the parsed envelope. The raw body bytes must be passed
	// untouched or verification will fail.
	VerifyWebhook(payload []byte, signatureHeader string) (*domain.GatewayEvent, error)
}

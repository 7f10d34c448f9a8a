package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/ports"
)

// WebhookService reconciles asynchronous payment-status callbacks with the
// ledger. Deliveries are unauthenticated, arrive out of order, and may be
// replayed; the signature check and the pending-only status transition make
// that safe. Redis keeps a processed-event marker so replays short-circuit
// before touching the database, but the ledger transition is the correctness
// backstop, not the cache.
type WebhookService struct {
	gateway  ports.PaymentGateway
	ledger   ports.LedgerRepository
	redis    *redis.Client
	dedupTTL time.Duration
}

func NewWebhookService(gateway ports.PaymentGateway, ledger ports.LedgerRepository, redisClient *redis.Client, dedupTTL time.Duration) *WebhookService {
	return &WebhookService{
		gateway:  gateway,
		ledger:   ledger,
		redis:    redisClient,
		dedupTTL: dedupTTL,
	}
}

func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	switch domain.KindOf(event.Type) {
	case domain.EventPaymentSucceeded:
		return s.settle(ctx, event, domain.PaymentCompleted, domain.OrderPaid)
	case domain.EventPaymentFailed:
		return s.settle(ctx, event, domain.PaymentFailed, domain.OrderCanceled)
	default:
		log.Printf("Ignoring webhook event %s of type %s", event.ID, event.Type)
		return nil
	}
}

func (s *WebhookService) settle(ctx context.Context, event *domain.GatewayEvent, paymentStatus domain.PaymentStatus, orderStatus domain.OrderStatus) error {
	if s.alreadyProcessed(ctx, event.ID) {
		log.Printf("Webhook event %s already processed, skipping", event.ID)
		return nil
	}

	updated, err := s.ledger.SettleIntent(ctx, event.IntentID, paymentStatus, orderStatus)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("payment for intent %s: %w", event.IntentID, domain.ErrNotFound)
		}

		return fmt.Errorf("%w: settle intent %s: %v", domain.ErrPersistence, event.IntentID, err)
	}

	log.Printf("Webhook event %s: %d payment(s) for intent %s moved to %s", event.ID, updated, event.IntentID, paymentStatus)

	s.markProcessed(ctx, event.ID)

	return nil
}

func (s *WebhookService) alreadyProcessed(ctx context.Context, eventID string) bool {
	n, err := s.redis.Exists(ctx, dedupKey(eventID)).Result()
	if err != nil {
		// Cache down means we fall through to the idempotent ledger path.
		log.Printf("Webhook dedup lookup failed for %s: %v", eventID, err)
		return false
	}

	return n > 0
}

func (s *WebhookService) markProcessed(ctx context.Context, eventID string) {
	if err := s.redis.Set(ctx, dedupKey(eventID), "1", s.dedupTTL).Err(); err != nil {
		log.Printf("Failed to mark webhook event %s processed: %v", eventID, err)
	}
}

func dedupKey(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

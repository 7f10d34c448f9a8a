package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/ports"
)

type CheckoutRequest struct {
	Items []domain.CartItem `json:"items"`
}

type CheckoutResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"payment_id"`
}

// CheckoutService provisions orders: it asks the gateway for a payment intent
// covering the whole cart, then persists one Order+Payment pair per line item
// plus one Attendee row per ticket unit, all in a single transaction.
type CheckoutService struct {
	catalog  ports.CatalogRepository
	ledger   ports.LedgerRepository
	gateway  ports.PaymentGateway
	fees     *FeeCalculator
	currency string
}

func NewCheckoutService(catalog ports.CatalogRepository, ledger ports.LedgerRepository, gateway ports.PaymentGateway, fees *FeeCalculator, currency string) *CheckoutService {
	return &CheckoutService{
		catalog:  catalog,
		ledger:   ledger,
		gateway:  gateway,
		fees:     fees,
		currency: currency,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, items []domain.CartItem) (*CheckoutResponse, error) {
	// Validation happens before any external or persistent side effect.
	charge, err := s.fees.CartCharge(items)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, MinorUnits(charge), s.currency, map[string]string{
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create intent: %v", domain.ErrGateway, err)
	}

	log.Printf("Created payment intent %s for user %s (amount %s %s)", intent.ID, userID, charge, s.currency)

	records, err := s.buildRecords(ctx, userID, items, intent.ID)
	if err != nil {
		s.cancelIntent(ctx, intent.ID)
		return nil, err
	}

	if err := s.ledger.CreateCheckout(ctx, records); err != nil {
		// A chargeable intent with no local record must not survive a failed
		// provisioning attempt.
		s.cancelIntent(ctx, intent.ID)
		return nil, fmt.Errorf("%w: create checkout records: %v", domain.ErrPersistence, err)
	}

	last := records[len(records)-1].Payment

	return &CheckoutResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    last.ID.String(),
	}, nil
}

func (s *CheckoutService) buildRecords(ctx context.Context, userID uuid.UUID, items []domain.CartItem, intentID string) ([]domain.CheckoutRecord, error) {
	now := time.Now()
	records := make([]domain.CheckoutRecord, 0, len(items))

	for _, item := range items {
		eventID, err := uuid.Parse(item.EventID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid event id %q", domain.ErrInvalidCart, item.EventID)
		}

		event, err := s.catalog.GetEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", item.EventID, domain.ErrNotFound)
		}

		// Attendees reference the event's first ticket tier, matching the
		// checkout flow where the cart carries the display price.
		ticket, err := s.catalog.FirstTicketForEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("ticket for event %s: %w", item.EventID, domain.ErrNotFound)
		}

		amounts, err := s.fees.LineAmounts(item)
		if err != nil {
			return nil, err
		}

		evID := event.ID
		order := domain.Order{
			ID:          uuid.New(),
			UserID:      userID,
			EventID:     &evID,
			TotalPrice:  amounts.Total,
			PlatformFee: amounts.Fee,
			Status:      domain.OrderPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		payment := domain.Payment{
			ID:        uuid.New(),
			UserID:    userID,
			OrderID:   order.ID,
			IntentID:  intentID,
			Amount:    amounts.Total,
			Status:    domain.PaymentPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		attendees := make([]domain.Attendee, 0, item.Quantity)
		for i := int64(0); i < item.Quantity; i++ {
			attendees = append(attendees, domain.Attendee{
				ID:        uuid.New(),
				UserID:    userID,
				OrderID:   order.ID,
				TicketID:  ticket.ID,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		records = append(records, domain.CheckoutRecord{
			Order:   order,
			Payment: payment,
			Fee: domain.PlatformFeeRecord{
				OrderID:     order.ID,
				Percentage:  s.fees.FeePercent(),
				FixedAmount: decimal.Zero,
				TotalFee:    amounts.Fee,
			},
			Attendees: attendees,
		})
	}

	return records, nil
}

func (s *CheckoutService) cancelIntent(ctx context.Context, intentID string) {
	if err := s.gateway.CancelIntent(ctx, intentID); err != nil {
		log.Printf("Failed to cancel payment intent %s: %v", intentID, err)
		return
	}

	log.Printf("Canceled payment intent %s after failed provisioning", intentID)
}

// UserOrders lists the caller's orders, newest first.
func (s *CheckoutService) UserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.ledger.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrPersistence, err)
	}

	return orders, nil
}

package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

// CatalogRepository is read-only: the core never mutates events or tickets.
type CatalogRepository interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	FirstTicketForEvent(ctx context.Context, eventID uuid.UUID) (*domain.Ticket, error)
}

type LedgerRepository interface {
	// CreateCheckout persists all records of one provisioning attempt in a
	// single transaction.
	CreateCheckout(ctx context.Context, records []domain.CheckoutRecord) error

	// SettleIntent transitions every pending Payment carrying intentID, and
	// its Order, to the given statuses. Payments already in a terminal state
	// are left untouched. Returns the number of payments transitioned, or
	// domain.ErrNotFound when no payment carries the intent id.
	SettleIntent(ctx context.Context, intentID string, paymentStatus domain.PaymentStatus, orderStatus domain.OrderStatus) (int, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetAttendee(ctx context.Context, attendeeID uuid.UUID) (*domain.Attendee, error)

	// MarkAttendeeCheckedIn is a no-op if the attendee is already checked in.
	MarkAttendeeCheckedIn(ctx context.Context, attendeeID uuid.UUID, checkInTime time.Time) error

	ListEventAttendees(ctx context.Context, eventID uuid.UUID) ([]domain.AttendeeTicket, error)
	ListUserAttendees(ctx context.Context, userID uuid.UUID) ([]domain.AttendeeTicket, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}

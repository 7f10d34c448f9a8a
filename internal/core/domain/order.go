package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderPaid     OrderStatus = "paid"
	OrderCanceled OrderStatus = "canceled"
	OrderRefunded OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	EventID     *uuid.UUID
	TotalPrice  decimal.Decimal
	PlatformFee decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payment tracks one charge attempt against the external processor. Several
// payments may carry the same intent id: a cart produces a single intent but
// one Order+Payment pair per line item.
type Payment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OrderID   uuid.UUID
	IntentID  string
	Amount    decimal.Decimal
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Attendee struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	OrderID     uuid.UUID
	TicketID    uuid.UUID
	CheckedIn   bool
	CheckInTime *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlatformFeeRecord is a detachable audit row; the authoritative fee lives on
// the Order itself.
type PlatformFeeRecord struct {
	OrderID     uuid.UUID
	Percentage  decimal.Decimal
	FixedAmount decimal.Decimal
	TotalFee    decimal.Decimal
}

// CartItem is one line of a checkout request.
type CartItem struct {
	EventID  string          `json:"event_id"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// CheckoutRecord bundles everything provisioned for one cart line item. The
// ledger persists the whole slice of records atomically.
type CheckoutRecord struct {
	Order     Order
	Payment   Payment
	Fee       PlatformFeeRecord
	Attendees []Attendee
}

// AttendeeTicket is the read shape for attendee listings: the attendee row
// joined with its ticket and event.
type AttendeeTicket struct {
	Attendee    Attendee
	EventID     uuid.UUID
	EventTitle  string
	EventDate   time.Time
	TicketPrice decimal.Decimal
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uuid.UUID
	OrganizerID uuid.UUID
	Title       string
	Price       decimal.Decimal
	Date        time.Time
	Location    string
	CategoryID  *uuid.UUID
}

// Ticket is a purchasable tier of an event. QuantityAvailable is read during
// provisioning but never decremented; capacity enforcement is a product
// decision that has not landed yet.
type Ticket struct {
	ID                uuid.UUID
	EventID           uuid.UUID
	Name              string
	Price             decimal.Decimal
	QuantityAvailable int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

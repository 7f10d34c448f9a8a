package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := `
	SELECT id, organizer_id, title, price, date, location, category_id
	FROM events
	WHERE id = $1
	`

	var event domain.Event
	var categoryID sql.NullString

	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Price,
		&event.Date,
		&event.Location,
		&categoryID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}

		return nil, err
	}

	if categoryID.Valid && categoryID.String != "" {
		id, _ := uuid.Parse(categoryID.String)
		event.CategoryID = &id
	}

	return &event, nil
}

// FirstTicketForEvent returns the event's oldest ticket tier, the one
// attendees are provisioned against.
func (r *CatalogRepository) FirstTicketForEvent(ctx context.Context, eventID uuid.UUID) (*domain.Ticket, error) {
	query := `
	SELECT id, event_id, name, price, quantity_available, created_at, updated_at
	FROM tickets
	WHERE event_id = $1
	ORDER BY created_at, id
	LIMIT 1
	`

	var ticket domain.Ticket

	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Name,
		&ticket.Price,
		&ticket.QuantityAvailable,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ticket for event %s: %w", eventID, domain.ErrNotFound)
		}

		return nil, err
	}

	return &ticket, nil
}

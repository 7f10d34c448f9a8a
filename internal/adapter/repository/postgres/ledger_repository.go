package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateCheckout(ctx context.Context, records []domain.CheckoutRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	orderStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO orders (id, user_id, event_id, total_price, platform_fee, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare order statement: %w", err)
	}
	defer orderStmt.Close()

	paymentStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO payments (id, user_id, order_id, stripe_payment_intent_id, amount, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare payment statement: %w", err)
	}
	defer paymentStmt.Close()

	feeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO platform_fees (order_id, percentage, fixed_amount, total_fee)
	VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform fee statement: %w", err)
	}
	defer feeStmt.Close()

	attendeeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO attendees (id, user_id, order_id, ticket_id, checked_in, created_at, updated_at)
	VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare attendee statement: %w", err)
	}
	defer attendeeStmt.Close()

	for _, rec := range records {
		o := rec.Order
		_, err = orderStmt.ExecContext(ctx, o.ID, o.UserID, o.EventID, o.TotalPrice, o.PlatformFee, o.Status, o.CreatedAt, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
		}

		p := rec.Payment
		_, err = paymentStmt.ExecContext(ctx, p.ID, p.UserID, p.OrderID, p.IntentID, p.Amount, p.Status, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert payment %s: %w", p.ID, err)
		}

		f := rec.Fee
		_, err = feeStmt.ExecContext(ctx, f.OrderID, f.Percentage, f.FixedAmount, f.TotalFee)
		if err != nil {
			return fmt.Errorf("failed to insert platform fee for order %s: %w", f.OrderID, err)
		}

		for _, a := range rec.Attendees {
			_, err = attendeeStmt.ExecContext(ctx, a.ID, a.UserID, a.OrderID, a.TicketID, a.CreatedAt, a.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert attendee %s: %w", a.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return nil
}

// SettleIntent locks every payment carrying the intent id so concurrent
// deliveries of the same webhook serialize, then transitions the pending ones
// and their orders. Payments already in a terminal state stay as they are.
func (r *LedgerRepository) SettleIntent(ctx context.Context, intentID string, paymentStatus domain.PaymentStatus, orderStatus domain.OrderStatus) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
	SELECT id, order_id, status
	FROM payments
	WHERE stripe_payment_intent_id = $1
	FOR UPDATE
	`, intentID)
	if err != nil {
		return 0, err
	}

	type lockedPayment struct {
		id      uuid.UUID
		orderID uuid.UUID
		status  domain.PaymentStatus
	}

	var payments []lockedPayment
	for rows.Next() {
		var p lockedPayment
		if err := rows.Scan(&p.id, &p.orderID, &p.status); err != nil {
			rows.Close()
			return 0, err
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(payments) == 0 {
		return 0, fmt.Errorf("payment for intent %s: %w", intentID, domain.ErrNotFound)
	}

	now := time.Now()
	updated := 0

	for _, p := range payments {
		if p.status != domain.PaymentPending {
			continue
		}

		_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3
		`, paymentStatus, now, p.id)
		if err != nil {
			return 0, fmt.Errorf("failed to update payment %s: %w", p.id, err)
		}

		_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'pending'
		`, orderStatus, now, p.orderID)
		if err != nil {
			return 0, fmt.Errorf("failed to update order %s: %w", p.orderID, err)
		}

		updated++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit settlement transaction: %w", err)
	}

	return updated, nil
}

func (r *LedgerRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `
	SELECT id, user_id, event_id, total_price, platform_fee, status, created_at, updated_at
	FROM orders
	WHERE id = $1
	`

	var order domain.Order
	var eventID sql.NullString

	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID,
		&order.UserID,
		&eventID,
		&order.TotalPrice,
		&order.PlatformFee,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}

		return nil, err
	}

	if eventID.Valid && eventID.String != "" {
		id, _ := uuid.Parse(eventID.String)
		order.EventID = &id
	}

	return &order, nil
}

func (r *LedgerRepository) GetAttendee(ctx context.Context, attendeeID uuid.UUID) (*domain.Attendee, error) {
	query := `
	SELECT id, user_id, order_id, ticket_id, checked_in, check_in_time, created_at, updated_at
	FROM attendees
	WHERE id = $1
	`

	var attendee domain.Attendee
	var checkInTime sql.NullTime

	err := r.db.QueryRowContext(ctx, query, attendeeID).Scan(
		&attendee.ID,
		&attendee.UserID,
		&attendee.OrderID,
		&attendee.TicketID,
		&attendee.CheckedIn,
		&checkInTime,
		&attendee.CreatedAt,
		&attendee.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("attendee %s: %w", attendeeID, domain.ErrNotFound)
		}

		return nil, err
	}

	if checkInTime.Valid {
		attendee.CheckInTime = &checkInTime.Time
	}

	return &attendee, nil
}

func (r *LedgerRepository) MarkAttendeeCheckedIn(ctx context.Context, attendeeID uuid.UUID, checkInTime time.Time) error {
	query := `
	UPDATE attendees
	SET checked_in = TRUE, check_in_time = $1, updated_at = $2
	WHERE id = $3 AND checked_in = FALSE
	`

	_, err := r.db.ExecContext(ctx, query, checkInTime, checkInTime, attendeeID)

	return err
}

const attendeeTicketColumns = `
	a.id, a.user_id, a.order_id, a.ticket_id, a.checked_in, a.check_in_time, a.created_at, a.updated_at,
	e.id, e.title, e.date, t.price
`

func (r *LedgerRepository) ListEventAttendees(ctx context.Context, eventID uuid.UUID) ([]domain.AttendeeTicket, error) {
	query := `
	SELECT ` + attendeeTicketColumns + `
	FROM attendees a
	JOIN orders o ON o.id = a.order_id
	JOIN tickets t ON t.id = a.ticket_id
	JOIN events e ON e.id = t.event_id
	WHERE e.id = $1 AND o.status = 'paid'
	ORDER BY a.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanAttendeeTickets(rows)
}

func (r *LedgerRepository) ListUserAttendees(ctx context.Context, userID uuid.UUID) ([]domain.AttendeeTicket, error) {
	query := `
	SELECT ` + attendeeTicketColumns + `
	FROM attendees a
	JOIN orders o ON o.id = a.order_id
	JOIN tickets t ON t.id = a.ticket_id
	JOIN events e ON e.id = t.event_id
	WHERE a.user_id = $1 AND o.status = 'paid'
	ORDER BY a.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanAttendeeTickets(rows)
}

func scanAttendeeTickets(rows *sql.Rows) ([]domain.AttendeeTicket, error) {
	var result []domain.AttendeeTicket

	for rows.Next() {
		var at domain.AttendeeTicket
		var checkInTime sql.NullTime

		if err := rows.Scan(
			&at.Attendee.ID,
			&at.Attendee.UserID,
			&at.Attendee.OrderID,
			&at.Attendee.TicketID,
			&at.Attendee.CheckedIn,
			&checkInTime,
			&at.Attendee.CreatedAt,
			&at.Attendee.UpdatedAt,
			&at.EventID,
			&at.EventTitle,
			&at.EventDate,
			&at.TicketPrice,
		); err != nil {
			return nil, err
		}

		if checkInTime.Valid {
			at.Attendee.CheckInTime = &checkInTime.Time
		}

		result = append(result, at)
	}

	return result, rows.Err()
}

func (r *LedgerRepository) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	query := `
	SELECT id, user_id, event_id, total_price, platform_fee, status, created_at, updated_at
	FROM orders
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var eventID sql.NullString

		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&eventID,
			&order.TotalPrice,
			&order.PlatformFee,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if eventID.Valid && eventID.String != "" {
			id, _ := uuid.Parse(eventID.String)
			order.EventID = &id
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

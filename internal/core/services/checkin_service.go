package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/ports"
)

type CheckInResult struct {
	Attendee         domain.Attendee
	AlreadyCheckedIn bool
}

// CheckInService marks attendees as admitted at the door. The transition is
// one-way: the first check-in wins and repeats return the original time.
type CheckInService struct {
	ledger ports.LedgerRepository
}

func NewCheckInService(ledger ports.LedgerRepository) *CheckInService {
	return &CheckInService{ledger: ledger}
}

func (s *CheckInService) CheckIn(ctx context.Context, attendeeID uuid.UUID, actor domain.Actor) (*CheckInResult, error) {
	if !actor.HasRole(domain.RoleHostess) {
		return nil, fmt.Errorf("%w: check-in requires the %s role", domain.ErrForbidden, domain.RoleHostess)
	}

	attendee, err := s.ledger.GetAttendee(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("attendee %s: %w", attendeeID, domain.ErrNotFound)
	}

	order, err := s.ledger.GetOrder(ctx, attendee.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", attendee.OrderID, domain.ErrNotFound)
	}

	if order.Status != domain.OrderPaid {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrOrderNotPaid, order.ID, order.Status)
	}

	if attendee.CheckedIn {
		return &CheckInResult{Attendee: *attendee, AlreadyCheckedIn: true}, nil
	}

	now := time.Now()
	if err := s.ledger.MarkAttendeeCheckedIn(ctx, attendee.ID, now); err != nil {
		return nil, fmt.Errorf("%w: mark checked in: %v", domain.ErrPersistence, err)
	}

	log.Printf("Attendee %s checked in by %s", attendee.ID, actor.UserID)

	attendee.CheckedIn = true
	attendee.CheckInTime = &now

	return &CheckInResult{Attendee: *attendee}, nil
}

// EventAttendees lists paid attendees of an event for door staff.
func (s *CheckInService) EventAttendees(ctx context.Context, eventID uuid.UUID, actor domain.Actor) ([]domain.AttendeeTicket, error) {
	if !actor.HasRole(domain.RoleHostess) {
		return nil, fmt.Errorf("%w: attendee listing requires the %s role", domain.ErrForbidden, domain.RoleHostess)
	}

	attendees, err := s.ledger.ListEventAttendees(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: list event attendees: %v", domain.ErrPersistence, err)
	}

	return attendees, nil
}

// UserTickets lists the caller's own paid attendee records.
func (s *CheckInService) UserTickets(ctx context.Context, userID uuid.UUID) ([]domain.AttendeeTicket, error) {
	attendees, err := s.ledger.ListUserAttendees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user attendees: %v", domain.ErrPersistence, err)
	}

	return attendees, nil
}

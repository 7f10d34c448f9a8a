// Package mocks holds testify mocks for the core ports.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t testingT) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	ret := m.Called(ctx, eventID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.Event), ret.Error(1)
}

func (m *CatalogRepository) FirstTicketForEvent(ctx context.Context, eventID uuid.UUID) (*domain.Ticket, error) {
	ret := m.Called(ctx, eventID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.Ticket), ret.Error(1)
}

type LedgerRepository struct {
	mock.Mock
}

func NewLedgerRepository(t testingT) *LedgerRepository {
	m := &LedgerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *LedgerRepository) CreateCheckout(ctx context.Context, records []domain.CheckoutRecord) error {
	ret := m.Called(ctx, records)
	return ret.Error(0)
}

func (m *LedgerRepository) SettleIntent(ctx context.Context, intentID string, paymentStatus domain.PaymentStatus, orderStatus domain.OrderStatus) (int, error) {
	ret := m.Called(ctx, intentID, paymentStatus, orderStatus)
	return ret.Int(0), ret.Error(1)
}

func (m *LedgerRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	ret := m.Called(ctx, orderID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.Order), ret.Error(1)
}

func (m *LedgerRepository) GetAttendee(ctx context.Context, attendeeID uuid.UUID) (*domain.Attendee, error) {
	ret := m.Called(ctx, attendeeID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.Attendee), ret.Error(1)
}

func (m *LedgerRepository) MarkAttendeeCheckedIn(ctx context.Context, attendeeID uuid.UUID, checkInTime time.Time) error {
	ret := m.Called(ctx, attendeeID, checkInTime)
	return ret.Error(0)
}

func (m *LedgerRepository) ListEventAttendees(ctx context.Context, eventID uuid.UUID) ([]domain.AttendeeTicket, error) {
	ret := m.Called(ctx, eventID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.AttendeeTicket), ret.Error(1)
}

func (m *LedgerRepository) ListUserAttendees(ctx context.Context, userID uuid.UUID) ([]domain.AttendeeTicket, error) {
	ret := m.Called(ctx, userID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.AttendeeTicket), ret.Error(1)
}

func (m *LedgerRepository) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	ret := m.Called(ctx, userID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.Order), ret.Error(1)
}

type PaymentGateway struct {
	mock.Mock
}

func NewPaymentGateway(t testingT) *PaymentGateway {
	m := &PaymentGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PaymentGateway) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	ret := m.Called(ctx, amountMinorUnits, currency, metadata)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.PaymentIntent), ret.Error(1)
}

func (m *PaymentGateway) CancelIntent(ctx context.Context, intentID string) error {
	ret := m.Called(ctx, intentID)
	return ret.Error(0)
}

func (m *PaymentGateway) VerifyWebhook(payload []byte, signatureHeader string) (*domain.GatewayEvent, error) {
	ret := m.Called(payload, signatureHeader)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.GatewayEvent), ret.Error(1)
}

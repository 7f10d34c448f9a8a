package domain

import "errors"

// Error kinds recovered at operation boundaries. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with context via fmt.Errorf.
var (
	ErrInvalidCart      = errors.New("invalid cart")
	ErrGateway          = errors.New("payment gateway error")
	ErrPersistence      = errors.New("persistence error")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrNotFound         = errors.New("not found")
	ErrOrderNotPaid     = errors.New("order not paid")
	ErrForbidden        = errors.New("forbidden")
)

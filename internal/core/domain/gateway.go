package domain

// PaymentIntent is the processor's handle for a pending charge. ClientSecret
// goes back to the browser so the frontend can confirm the charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// GatewayEvent is a verified webhook envelope from the payment processor.
type GatewayEvent struct {
	ID       string
	Type     string
	IntentID string
}

// GatewayEventKind is the closed set of webhook event types the reconciler
// acts on. Everything else is acknowledged and ignored.
type GatewayEventKind int

const (
	EventIgnored GatewayEventKind = iota
	EventPaymentSucceeded
	EventPaymentFailed
)

func KindOf(eventType string) GatewayEventKind {
	switch eventType {
	case "payment_intent.succeeded":
		return EventPaymentSucceeded
	case "payment_intent.payment_failed":
		return EventPaymentFailed
	default:
		return EventIgnored
	}
}

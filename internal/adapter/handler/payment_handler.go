package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/services"
	"github.com/luma-events/ticketing-backend/internal/monitoring"
)

type PaymentHandler struct {
	checkout *services.CheckoutService
	webhook  *services.WebhookService
}

func NewPaymentHandler(checkout *services.CheckoutService, webhook *services.WebhookService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, webhook: webhook}
}

func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		monitoring.RecordCheckout("invalid")
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := h.checkout.Checkout(r.Context(), actor.UserID, req.Items)
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", actor.UserID, err)
		monitoring.RecordCheckout("error")

		// Checkout failures all surface as 400 with a readable reason;
		// gateway internals stay out of the response.
		switch {
		case errors.Is(err, domain.ErrInvalidCart):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrGateway):
			writeError(w, http.StatusBadRequest, "payment processor rejected the request")
		default:
			writeError(w, http.StatusBadRequest, "could not create payment")
		}

		return
	}

	monitoring.RecordCheckout("success")
	writeJSON(w, http.StatusOK, resp)
}

// Webhook is unauthenticated; the payload signature is the only protection.
// The body must reach the verifier as raw bytes.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")

	if err := h.webhook.HandleEvent(r.Context(), payload, sigHeader); err != nil {
		log.Printf("Webhook processing failed: %v", err)

		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			monitoring.RecordWebhook("signature_error")
			// 400 tells the gateway not to retry this delivery.
			writeError(w, http.StatusBadRequest, "invalid signature")
		case errors.Is(err, domain.ErrNotFound):
			monitoring.RecordWebhook("not_found")
			// 404 lets the gateway retry; provisioning may still be in flight.
			writeError(w, http.StatusNotFound, "payment not found")
		default:
			monitoring.RecordWebhook("error")
			writeError(w, http.StatusInternalServerError, "error updating payment")
		}

		return
	}

	monitoring.RecordWebhook("success")
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *PaymentHandler) UserOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.checkout.UserOrders(r.Context(), actor.UserID)
	if err != nil {
		log.Printf("Listing orders failed for user %s: %v", actor.UserID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": ordersView(orders)})
}

type orderView struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id,omitempty"`
	TotalPrice  string `json:"total_price"`
	PlatformFee string `json:"platform_fee"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func ordersView(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		v := orderView{
			ID:          o.ID.String(),
			TotalPrice:  o.TotalPrice.StringFixed(2),
			PlatformFee: o.PlatformFee.StringFixed(2),
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		}
		if o.EventID != nil {
			v.EventID = o.EventID.String()
		}
		views = append(views, v)
	}

	return views
}

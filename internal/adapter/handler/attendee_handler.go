package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/services"
	"github.com/luma-events/ticketing-backend/internal/monitoring"
)

type AttendeeHandler struct {
	checkin *services.CheckInService
}

func NewAttendeeHandler(checkin *services.CheckInService) *AttendeeHandler {
	return &AttendeeHandler{checkin: checkin}
}

type checkInRequest struct {
	QRData string `json:"qr_data"`
}

type qrPayload struct {
	AttendeeID string `json:"attendee_id"`
}

func (h *AttendeeHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	// qr_data is the scanned QR content: a JSON string carrying the
	// attendee id.
	var qr qrPayload
	if err := json.Unmarshal([]byte(req.QRData), &qr); err != nil || qr.AttendeeID == "" {
		writeError(w, http.StatusBadRequest, "malformed QR code data")
		return
	}

	attendeeID, err := uuid.Parse(qr.AttendeeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed attendee id")
		return
	}

	result, err := h.checkin.CheckIn(r.Context(), attendeeID, actor)
	if err != nil {
		log.Printf("Check-in failed for attendee %s: %v", attendeeID, err)

		switch {
		case errors.Is(err, domain.ErrForbidden):
			monitoring.RecordCheckIn("forbidden")
			writeError(w, http.StatusForbidden, "check-in requires door staff permissions")
		case errors.Is(err, domain.ErrNotFound):
			monitoring.RecordCheckIn("not_found")
			writeError(w, http.StatusNotFound, "attendee not found")
		case errors.Is(err, domain.ErrOrderNotPaid):
			monitoring.RecordCheckIn("unpaid")
			writeError(w, http.StatusBadRequest, "order is not paid")
		default:
			monitoring.RecordCheckIn("error")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}

		return
	}

	message := "Check-in successful"
	if result.AlreadyCheckedIn {
		message = "Attendee already checked in"
	}

	monitoring.RecordCheckIn("success")
	writeJSON(w, http.StatusOK, map[string]any{
		"attendee": attendeeSnapshot(result.Attendee),
		"message":  message,
	})
}

func (h *AttendeeHandler) EventAttendees(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	eventID, err := uuid.Parse(r.PathValue("event_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	attendees, err := h.checkin.EventAttendees(r.Context(), eventID, actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "attendee listing requires door staff permissions")
			return
		}

		log.Printf("Listing attendees failed for event %s: %v", eventID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"attendees": attendeeTicketsView(attendees)})
}

func (h *AttendeeHandler) UserTickets(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tickets, err := h.checkin.UserTickets(r.Context(), actor.UserID)
	if err != nil {
		log.Printf("Listing tickets failed for user %s: %v", actor.UserID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tickets": attendeeTicketsView(tickets)})
}

type attendeeView struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	TicketID    string `json:"ticket_id"`
	CheckedIn   bool   `json:"checked_in"`
	CheckInTime string `json:"check_in_time,omitempty"`
}

func attendeeSnapshot(a domain.Attendee) attendeeView {
	v := attendeeView{
		ID:        a.ID.String(),
		OrderID:   a.OrderID.String(),
		TicketID:  a.TicketID.String(),
		CheckedIn: a.CheckedIn,
	}
	if a.CheckInTime != nil {
		v.CheckInTime = a.CheckInTime.Format(time.RFC3339)
	}

	return v
}

type attendeeTicketView struct {
	attendeeView
	EventID     string `json:"event_id"`
	EventTitle  string `json:"event_title"`
	EventDate   string `json:"event_date"`
	TicketPrice string `json:"ticket_price"`
}

func attendeeTicketsView(items []domain.AttendeeTicket) []attendeeTicketView {
	views := make([]attendeeTicketView, 0, len(items))
	for _, item := range items {
		views = append(views, attendeeTicketView{
			attendeeView: attendeeSnapshot(item.Attendee),
			EventID:      item.EventID.String(),
			EventTitle:   item.EventTitle,
			EventDate:    item.EventDate.Format(time.RFC3339),
			TicketPrice:  item.TicketPrice.StringFixed(2),
		})
	}

	return views
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slotbook/internal/booking"
	"slotbook/internal/fault"
	"slotbook/internal/model"
)

type BookingHandler struct {
	engine *booking.Engine
	logger *slog.Logger
	loc    *time.Location
}

func NewBookingHandler(engine *booking.Engine, logger *slog.Logger, loc *time.Location) *BookingHandler {
	return &BookingHandler{engine: engine, logger: logger, loc: loc}
}

type createBookingRequest struct {
	MasterID    string `json:"master_id"`
	ServiceID   string `json:"service_id"`
	SlotID      string `json:"slot_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}

type bookingItem struct {
	ID          string `json:"id"`
	MasterID    string `json:"master_id"`
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func bookingItemFrom(b model.Booking) bookingItem {
	return bookingItem{
		ID:          b.ID,
		MasterID:    b.MasterID,
		ServiceID:   b.ServiceID,
		Date:        model.FormatDate(b.Date),
		Start:       model.FormatMinute(b.StartMinute),
		End:         model.FormatMinute(b.EndMinute),
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		Status:      b.Status,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		ClientPhone: b.ClientPhone,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func bookingItems(bookings []model.Booking) []bookingItem {
	items := make([]bookingItem, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingItemFrom(b))
	}
	return items
}

// Create books a service for the authenticated client. The client's
// email comes from the token, not the body.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}

	created, err := h.engine.Create(r.Context(), booking.CreateRequest{
		MasterID:    strings.TrimSpace(req.MasterID),
		ServiceID:   strings.TrimSpace(req.ServiceID),
		SlotID:      strings.TrimSpace(req.SlotID),
		ClientName:  req.ClientName,
		ClientEmail: p.Email,
		ClientPhone: strings.TrimSpace(req.ClientPhone),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingItemFrom(created))
}

// List shows a master their calendar or a client their own bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	switch p.Role {
	case model.RoleMaster:
		now := time.Now().In(h.loc)
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
		to := from.AddDate(0, 0, 30)
		q := r.URL.Query()
		if raw := q.Get("from"); raw != "" {
			d, err := model.ParseDate(raw, h.loc)
			if err != nil {
				writeError(w, h.logger, fault.InvalidInputf("from must be YYYY-MM-DD"))
				return
			}
			from = d
		}
		if raw := q.Get("to"); raw != "" {
			d, err := model.ParseDate(raw, h.loc)
			if err != nil {
				writeError(w, h.logger, fault.InvalidInputf("to must be YYYY-MM-DD"))
				return
			}
			to = d
		}
		bookings, err := h.engine.ListForMaster(r.Context(), p.ID, from, to)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookingItems(bookings)})
	case model.RoleClient:
		bookings, err := h.engine.ListForClient(r.Context(), p.Email)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookingItems(bookings)})
	default:
		writeJSON(w, http.StatusForbidden, errorBody{
			Error: errorDetail{Kind: "forbidden", Message: "unknown role"},
		})
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a booking through its lifecycle.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}

	updated, err := h.engine.UpdateStatus(r.Context(), p.ID, r.PathValue("id"), strings.TrimSpace(req.Status))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingItemFrom(updated))
}

// Delete removes a booking and frees its slots.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	if err := h.engine.Delete(r.Context(), p.ID, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

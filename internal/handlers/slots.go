package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/slots"
	"slotbook/internal/storage"
)

type SlotHandler struct {
	slots   *slots.Service
	catalog *storage.CatalogRepository
	logger  *slog.Logger
	loc     *time.Location
}

func NewSlotHandler(svc *slots.Service, catalog *storage.CatalogRepository, logger *slog.Logger, loc *time.Location) *SlotHandler {
	return &SlotHandler{slots: svc, catalog: catalog, logger: logger, loc: loc}
}

type slotItem struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	StartMinute     int    `json:"start_minute"`
	EndMinute       int    `json:"end_minute"`
	DurationMinutes int    `json:"duration_minutes"`
	Kind            string `json:"kind"`
	Available       bool   `json:"available"`
	BookingID       string `json:"booking_id,omitempty"`
}

// slotItemFrom renders a slot. The owner view includes the binding; the
// public view never exposes which booking holds a slot.
func slotItemFrom(s model.Slot, owner bool) slotItem {
	item := slotItem{
		ID:              s.ID,
		Date:            model.FormatDate(s.Date),
		Start:           model.FormatMinute(s.StartMinute),
		End:             model.FormatMinute(s.EndMinute),
		StartMinute:     s.StartMinute,
		EndMinute:       s.EndMinute,
		DurationMinutes: s.DurationMinutes,
		Kind:            s.Kind,
		Available:       s.Available,
	}
	if owner {
		item.BookingID = s.BookingID
	}
	return item
}

func slotItems(daySlots []model.Slot, owner bool) []slotItem {
	items := make([]slotItem, 0, len(daySlots))
	for _, s := range daySlots {
		items = append(items, slotItemFrom(s, owner))
	}
	return items
}

func (h *SlotHandler) dateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, fault.InvalidInputf("date query parameter is required")
	}
	day, err := model.ParseDate(raw, h.loc)
	if err != nil {
		return time.Time{}, fault.InvalidInputf("date must be YYYY-MM-DD")
	}
	return day, nil
}

// PublicDay lists a master's slots for clients picking a time.
func (h *SlotHandler) PublicDay(w http.ResponseWriter, r *http.Request) {
	masterID := r.PathValue("id")
	day, err := h.dateParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.catalog.GetMaster(r.Context(), masterID); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, h.logger, fault.NotFoundf("master not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	daySlots, err := h.slots.Day(r.Context(), masterID, day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  model.FormatDate(day),
		"slots": slotItems(daySlots, false),
	})
}

// OwnerDay lists the authenticated master's own slots with bindings.
func (h *SlotHandler) OwnerDay(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}
	day, err := h.dateParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	daySlots, err := h.slots.Day(r.Context(), p.ID, day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  model.FormatDate(day),
		"slots": slotItems(daySlots, true),
	})
}

type patchSlotRequest struct {
	IsBreak *bool `json:"is_break"`
}

// Patch toggles a slot between work and blocked.
func (h *SlotHandler) Patch(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req patchSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}
	if req.IsBreak == nil {
		writeError(w, h.logger, fault.InvalidInputf("is_break is required"))
		return
	}

	updated, err := h.slots.ToggleBreak(r.Context(), p.ID, r.PathValue("id"), *req.IsBreak)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, slotItemFrom(updated, true))
}

type appendSlotRequest struct {
	Date string `json:"date"`
}

// Append adds one work slot after the last one of the date.
func (h *SlotHandler) Append(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req appendSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}
	day, err := model.ParseDate(req.Date, h.loc)
	if err != nil {
		writeError(w, h.logger, fault.InvalidInputf("date must be YYYY-MM-DD"))
		return
	}

	created, err := h.slots.AppendSlot(r.Context(), p.ID, day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotItemFrom(created, true))
}

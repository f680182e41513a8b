package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/slots"
	"slotbook/internal/storage"
)

type ScheduleHandler struct {
	slots   *slots.Service
	catalog *storage.CatalogRepository
	logger  *slog.Logger
	loc     *time.Location
}

func NewScheduleHandler(svc *slots.Service, catalog *storage.CatalogRepository, logger *slog.Logger, loc *time.Location) *ScheduleHandler {
	return &ScheduleHandler{slots: svc, catalog: catalog, logger: logger, loc: loc}
}

type weekdayItem struct {
	Weekday     int    `json:"weekday"`
	IsWorking   bool   `json:"is_working"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	LunchStart  int    `json:"lunch_start_minute"`
	LunchEnd    int    `json:"lunch_end_minute"`
	SlotMinutes int    `json:"slot_minutes"`
}

func weekdayItemFrom(t model.WeeklyTemplate) weekdayItem {
	item := weekdayItem{
		Weekday:     t.Weekday,
		IsWorking:   t.IsWorking,
		StartMinute: t.StartMinute,
		EndMinute:   t.EndMinute,
		LunchStart:  t.LunchStart,
		LunchEnd:    t.LunchEnd,
		SlotMinutes: t.SlotMinutes,
	}
	if t.IsWorking {
		item.Start = model.FormatMinute(t.StartMinute)
		item.End = model.FormatMinute(t.EndMinute)
	}
	return item
}

// Get returns the master's weekly schedule, seeding the defaults on
// first access so a fresh master sees a usable week immediately.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}
	if err := h.catalog.EnsureMaster(r.Context(), p.ID, p.Email, p.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}

	templates, err := h.slots.WeekTemplates(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]weekdayItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, weekdayItemFrom(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": items})
}

type putScheduleRequest struct {
	Week []weekdayItem `json:"week"`
}

// Put upserts the listed weekday templates. Days not listed are left as
// they are. Already generated dates pick up the change on next access.
func (h *ScheduleHandler) Put(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req putScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}
	if len(req.Week) == 0 {
		writeError(w, h.logger, fault.InvalidInputf("week must list at least one day"))
		return
	}

	templates := make([]model.WeeklyTemplate, 0, len(req.Week))
	for _, item := range req.Week {
		templates = append(templates, model.WeeklyTemplate{
			Weekday:     item.Weekday,
			IsWorking:   item.IsWorking,
			StartMinute: item.StartMinute,
			EndMinute:   item.EndMinute,
			LunchStart:  item.LunchStart,
			LunchEnd:    item.LunchEnd,
			SlotMinutes: item.SlotMinutes,
		})
	}

	saved, err := h.slots.SaveWeekTemplates(r.Context(), p.ID, templates)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]weekdayItem, 0, len(saved))
	for _, t := range saved {
		items = append(items, weekdayItemFrom(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": items})
}

type exceptionItem struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	IsWorking bool   `json:"is_working"`
	Reason    string `json:"reason,omitempty"`
}

func exceptionItemFrom(e model.DateException) exceptionItem {
	return exceptionItem{
		ID:        e.ID,
		Date:      model.FormatDate(e.Date),
		IsWorking: e.IsWorking,
		Reason:    e.Reason,
	}
}

// ListExceptions returns the master's date exceptions. Range defaults to
// the coming 90 days.
func (h *ScheduleHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	now := time.Now().In(h.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	to := from.AddDate(0, 0, 90)
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

	exceptions, err := h.slots.Exceptions(r.Context(), p.ID, from, to)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]exceptionItem, 0, len(exceptions))
	for _, e := range exceptions {
		items = append(items, exceptionItemFrom(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"exceptions": items})
}

type toggleDayRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// ToggleDay flips whether a date is a working day.
func (h *ScheduleHandler) ToggleDay(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req toggleDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}
	day, err := model.ParseDate(req.Date, h.loc)
	if err != nil {
		writeError(w, h.logger, fault.InvalidInputf("date must be YYYY-MM-DD"))
		return
	}

	exc, err := h.slots.ToggleDayStatus(r.Context(), p.ID, day, strings.TrimSpace(req.Reason))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, exceptionItemFrom(exc))
}

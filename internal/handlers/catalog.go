package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/storage"
)

type CatalogHandler struct {
	catalog *storage.CatalogRepository
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *storage.CatalogRepository, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) ListMasters(w http.ResponseWriter, r *http.Request) {
	masters, err := h.catalog.ListMasters(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"masters": masters})
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	masterID := r.PathValue("id")
	if _, err := h.catalog.GetMaster(r.Context(), masterID); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, h.logger, fault.NotFoundf("master not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	services, err := h.catalog.ListServices(r.Context(), masterID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

type createServiceRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	Description     string `json:"description"`
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fault.InvalidInputf("invalid json body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, fault.InvalidInputf("service name is required"))
		return
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > model.MinutesPerDay {
		writeError(w, h.logger, fault.InvalidInputf("duration_minutes must be between 1 and %d", model.MinutesPerDay))
		return
	}
	if req.PriceCents < 0 {
		writeError(w, h.logger, fault.InvalidInputf("price_cents cannot be negative"))
		return
	}

	svc := model.Service{
		MasterID:        p.ID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Description:     strings.TrimSpace(req.Description),
	}
	id, err := h.catalog.CreateService(r.Context(), &svc)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	svc.ID = id
	writeJSON(w, http.StatusCreated, svc)
}

func (h *CatalogHandler) ListOwnServices(w http.ResponseWriter, r *http.Request) {
	p, ok := requireMaster(w, r)
	if !ok {
		return
	}
	services, err := h.catalog.ListServices(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

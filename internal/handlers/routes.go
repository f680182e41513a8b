package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"slotbook/internal/booking"
	"slotbook/internal/slots"
	"slotbook/internal/storage"
)

type Deps struct {
	Logger    *slog.Logger
	Location  *time.Location
	JWTSecret string
	Catalog   *storage.CatalogRepository
	Slots     *slots.Service
	Bookings  *booking.Engine
}

// Register wires every route onto the mux. Public routes need no token;
// everything else goes through bearer auth, with role checks inside the
// handlers.
func Register(mux *http.ServeMux, d Deps) {
	catalog := NewCatalogHandler(d.Catalog, d.Logger)
	slotH := NewSlotHandler(d.Slots, d.Catalog, d.Logger, d.Location)
	schedH := NewScheduleHandler(d.Slots, d.Catalog, d.Logger, d.Location)
	bookH := NewBookingHandler(d.Bookings, d.Logger, d.Location)

	authed := RequireAuth(d.JWTSecret)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux.HandleFunc("GET /v1/masters", catalog.ListMasters)
	mux.HandleFunc("GET /v1/masters/{id}/services", catalog.ListServices)
	mux.HandleFunc("GET /v1/masters/{id}/slots", slotH.PublicDay)

	mux.Handle("GET /v1/services", protect(catalog.ListOwnServices))
	mux.Handle("POST /v1/services", protect(catalog.CreateService))

	mux.Handle("GET /v1/slots", protect(slotH.OwnerDay))
	mux.Handle("PATCH /v1/slots/{id}", protect(slotH.Patch))
	mux.Handle("POST /v1/slots", protect(slotH.Append))

	mux.Handle("GET /v1/schedule", protect(schedH.Get))
	mux.Handle("PUT /v1/schedule", protect(schedH.Put))
	mux.Handle("GET /v1/day-exceptions", protect(schedH.ListExceptions))
	mux.Handle("POST /v1/day-exceptions/toggle", protect(schedH.ToggleDay))

	mux.Handle("POST /v1/bookings", protect(bookH.Create))
	mux.Handle("GET /v1/bookings", protect(bookH.List))
	mux.Handle("PATCH /v1/bookings/{id}/status", protect(bookH.UpdateStatus))
	mux.Handle("DELETE /v1/bookings/{id}", protect(bookH.Delete))
}

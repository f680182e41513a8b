// Package booking creates and manages bookings. A booking atomically
// claims the full chain of slots its service needs; concurrent attempts
// on the same chain are serialized by row locks and the loser gets a
// conflict instead of a double booking.
package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"slotbook/internal/fault"
	"slotbook/internal/model"
	"slotbook/internal/outbox"
	"slotbook/internal/storage"
	"slotbook/libs/db"
)

// Reconciler rebinds a date's slots after a booking mutation.
type Reconciler interface {
	Reconcile(ctx context.Context, masterID string, day time.Time) error
}

type Engine struct {
	pool     *db.Pool
	catalog  *storage.CatalogRepository
	slots    *storage.SlotRepository
	bookings *storage.BookingRepository
	outbox   *outbox.Repository
	recon    Reconciler
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewEngine(pool *db.Pool, catalog *storage.CatalogRepository, slots *storage.SlotRepository, bookings *storage.BookingRepository, ob *outbox.Repository, recon Reconciler, logger *slog.Logger, loc *time.Location) *Engine {
	return &Engine{
		pool:     pool,
		catalog:  catalog,
		slots:    slots,
		bookings: bookings,
		outbox:   ob,
		recon:    recon,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

type CreateRequest struct {
	MasterID    string
	ServiceID   string
	SlotID      string
	ClientName  string
	ClientEmail string
	ClientPhone string
}

func (r *CreateRequest) validate() error {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ClientEmail = strings.TrimSpace(r.ClientEmail)
	if r.MasterID == "" || r.ServiceID == "" || r.SlotID == "" {
		return fault.InvalidInputf("master_id, service_id and slot_id are required")
	}
	if len(r.ClientName) < 2 {
		return fault.InvalidInputf("client name is required")
	}
	if _, err := mail.ParseAddress(r.ClientEmail); err != nil {
		return fault.InvalidInputf("client email is invalid")
	}
	return nil
}

// Create books a service starting at the given slot. The head slot and
// every follow-on slot of the chain are locked in ascending start order
// inside one transaction, so two clients racing for overlapping chains
// cannot both win.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (model.Booking, error) {
	ctx, span := otel.Tracer("slotbook/booking").Start(ctx, "booking.create",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if err := req.validate(); err != nil {
		return model.Booking{}, err
	}

	svc, err := e.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if storage.IsNotFound(err) {
			return model.Booking{}, fault.NotFoundf("service not found")
		}
		return model.Booking{}, err
	}
	if svc.MasterID != req.MasterID {
		return model.Booking{}, fault.NotFoundf("service not found")
	}

	var created model.Booking
	err = e.pool.WithTx(ctx, func(tx pgx.Tx) error {
		head, err := e.slots.GetForUpdate(ctx, tx, req.SlotID)
		if err != nil {
			if storage.IsNotFound(err) {
				return fault.NotFoundf("slot not found")
			}
			return err
		}
		if head.MasterID != req.MasterID {
			return fault.NotFoundf("slot not found")
		}
		if head.Kind != model.SlotWork {
			return fault.Conflictf("only work slots can be booked")
		}
		if !head.Available || head.BookingID != "" {
			return fault.Conflictf("slot is no longer available")
		}
		if head.DurationMinutes <= 0 {
			return fault.Conflictf("slot has no usable duration")
		}
		if !startClock(head.Date, head.StartMinute, e.loc).After(e.now().In(e.loc)) {
			return fault.Conflictf("slot is in the past")
		}

		required := RequiredUnits(svc.DurationMinutes, head.DurationMinutes)
		starts, ok := ChainStarts(head.StartMinute, head.DurationMinutes, required)
		if !ok {
			return fault.Conflictf("service does not fit before end of day")
		}

		chainIDs := []string{head.ID}
		for _, start := range starts[1:] {
			next, err := e.slots.GetWorkByStartForUpdate(ctx, tx, req.MasterID, head.Date, start)
			if err != nil {
				if storage.IsNotFound(err) {
					return fault.Conflictf("not enough consecutive free slots")
				}
				return err
			}
			if !next.Available || next.BookingID != "" {
				return fault.Conflictf("not enough consecutive free slots")
			}
			chainIDs = append(chainIDs, next.ID)
		}

		endMinute := head.StartMinute + svc.DurationMinutes
		overlap, err := e.bookings.ActiveOverlapExists(ctx, tx, req.MasterID, head.Date, head.StartMinute, endMinute)
		if err != nil {
			return err
		}
		if overlap {
			return fault.Conflictf("an active booking already covers this time")
		}

		created, err = e.bookings.Insert(ctx, tx, &model.Booking{
			MasterID:    req.MasterID,
			ServiceID:   req.ServiceID,
			Date:        head.Date,
			StartMinute: head.StartMinute,
			EndMinute:   endMinute,
			Status:      model.StatusPending,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			ClientPhone: req.ClientPhone,
		})
		if err != nil {
			return err
		}
		if err := e.slots.Bind(ctx, tx, chainIDs, created.ID); err != nil {
			return err
		}
		return e.emit(ctx, tx, outbox.EventBookingCreated, created)
	})
	if err != nil {
		if storage.IsConflict(err) {
			return model.Booking{}, fault.Conflictf("booking lost a race for this slot, pick another")
		}
		return model.Booking{}, err
	}

	span.SetAttributes(
		attribute.String("booking.id", created.ID),
		attribute.String("booking.master_id", created.MasterID),
	)
	e.reconcileQuietly(ctx, created.MasterID, created.Date)
	return created, nil
}

func (e *Engine) Get(ctx context.Context, bookingID string) (model.Booking, error) {
	b, err := e.bookings.Get(ctx, e.pool, bookingID)
	if err != nil {
		if storage.IsNotFound(err) {
			return model.Booking{}, fault.NotFoundf("booking not found")
		}
		return model.Booking{}, err
	}
	return b, nil
}

func (e *Engine) ListForMaster(ctx context.Context, masterID string, from, to time.Time) ([]model.Booking, error) {
	return e.bookings.ListByMaster(ctx, masterID, from, to)
}

func (e *Engine) ListForClient(ctx context.Context, email string) ([]model.Booking, error) {
	return e.bookings.ListByClientEmail(ctx, email)
}

type eventPayload struct {
	BookingID   string `json:"booking_id"`
	MasterID    string `json:"master_id"`
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Status      string `json:"status"`
	ClientEmail string `json:"client_email"`
}

func (e *Engine) emit(ctx context.Context, tx pgx.Tx, eventType string, b model.Booking) error {
	payload, err := json.Marshal(eventPayload{
		BookingID:   b.ID,
		MasterID:    b.MasterID,
		ServiceID:   b.ServiceID,
		Date:        model.FormatDate(b.Date),
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		Status:      b.Status,
		ClientEmail: b.ClientEmail,
	})
	if err != nil {
		return err
	}
	return e.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}

func (e *Engine) reconcileQuietly(ctx context.Context, masterID string, day time.Time) {
	if err := e.recon.Reconcile(ctx, masterID, day); err != nil {
		e.logger.Warn("reconcile after booking mutation failed",
			"master_id", masterID,
			"day", model.FormatDate(day),
			"err", err,
		)
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkoberg/restaurant-reservation/internal/model"
	"github.com/mkoberg/restaurant-reservation/internal/queue"
	"github.com/mkoberg/restaurant-reservation/internal/service"
)

// EventPublisher is the broker surface the reservation handler uses to
// announce bookings and cancellations. Publishing is synchronous and
// best-effort: failures never fail the request, the publisher logs them
// itself, and a publish is never left in flight when the handler returns.
type EventPublisher interface {
	PublishReservationBooked(ctx context.Context, event queue.ReservationBookedEvent) error
	PublishReservationCancelled(ctx context.Context, event queue.ReservationCancelledEvent) error
}

// ReservationHandler exposes the booking engine's reservation
// operations over HTTP. The publisher may be nil, in which case no
// events are emitted.
type ReservationHandler struct {
	Booking   *service.BookingService
	Publisher EventPublisher
}

// NewReservationHandler constructs a ReservationHandler. The booking
// service must be non-nil; the publisher is optional.
func NewReservationHandler(booking *service.BookingService, publisher EventPublisher) *ReservationHandler {
	if booking == nil {
		panic("nil booking service passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: booking, Publisher: publisher}
}

// CreateReservation handles POST /v1/reservations. The body carries
// guest_name, date (YYYY-MM-DD), time (HH:MM), party_size and table_id.
// A taken slot answers 409, an oversized party 409, an unknown table
// 404 and malformed input 400.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var body struct {
		GuestName string `json:"guest_name"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		PartySize int    `json:"party_size"`
		TableID   int64  `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Booking.CreateReservation(c.Request().Context(),
		body.GuestName, body.Date, body.Time, body.PartySize, body.TableID)
	if err != nil {
		return writeError(c, err)
	}
	if h.Publisher != nil {
		ev := queue.ReservationBookedEvent{
			ReservationID: res.ID,
			GuestName:     res.GuestName,
			Date:          res.Date,
			Time:          res.Time,
			PartySize:     res.PartySize,
			TableID:       res.TableID,
			CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
		}
		if table, terr := h.Booking.GetTable(c.Request().Context(), res.TableID); terr == nil {
			ev.TableName = table.Name
		}
		_ = h.Publisher.PublishReservationBooked(c.Request().Context(), ev)
	}
	return c.JSON(http.StatusCreated, res)
}

// ListReservations handles GET /v1/reservations, ordered by date and time.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	reservations, err := h.Booking.ListReservations(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reservations)
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Booking.GetReservation(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CancelReservation handles DELETE /v1/reservations/:id. The deletion
// and its history entry are atomic; a second cancel of the same id
// answers 404.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Booking.CancelReservation(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	if h.Publisher != nil {
		ev := queue.ReservationCancelledEvent{
			ReservationID: id,
			CancelledAt:   time.Now().UTC().Format(time.RFC3339),
		}
		_ = h.Publisher.PublishReservationCancelled(c.Request().Context(), ev)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus handles PATCH /v1/reservations/:id/status with a JSON
// body of {"status": "..."}. Unknown status values answer 400.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status, ok := model.ParseReservationStatus(body.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if err := h.Booking.SetStatus(c.Request().Context(), id, status); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSlot handles GET /v1/slots?date=&time=&table_id=. It answers
// {"taken": bool} for the exact slot and never mutates state.
func (h *ReservationHandler) GetSlot(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	timeOfDay := strings.TrimSpace(c.QueryParam("time"))
	tableID, err := strconv.ParseInt(c.QueryParam("table_id"), 10, 64)
	if err != nil || tableID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}
	taken, err := h.Booking.IsSlotTaken(c.Request().Context(), date, timeOfDay, tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"taken": taken})
}

package handler // handler package contains table registry handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkoberg/restaurant-reservation/internal/service"
)

// TableHandler exposes the table registry operations of the booking
// engine. All validation and the deletion guard live in the service;
// the handler only binds requests and maps errors.
type TableHandler struct {
	Booking *service.BookingService
}

// NewTableHandler constructs a TableHandler and panics if the booking
// service is nil.
func NewTableHandler(booking *service.BookingService) *TableHandler {
	if booking == nil {
		panic("nil booking service passed to NewTableHandler")
	}
	return &TableHandler{Booking: booking}
}

// ListTables handles GET /v1/tables.
func (h *TableHandler) ListTables(c echo.Context) error {
	tables, err := h.Booking.ListTables(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// GetTable handles GET /v1/tables/:id.
func (h *TableHandler) GetTable(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	table, err := h.Booking.GetTable(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// CreateTable handles POST /v1/tables.
func (h *TableHandler) CreateTable(c echo.Context) error {
	var body struct {
		Name         string `json:"name"`
		Seats        int    `json:"seats"`
		HasProjector bool   `json:"has_projector"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	table, err := h.Booking.AddTable(c.Request().Context(), body.Name, body.Seats, body.HasProjector)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, table)
}

// UpdateTable handles PUT /v1/tables/:id.
func (h *TableHandler) UpdateTable(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name         string `json:"name"`
		Seats        int    `json:"seats"`
		HasProjector bool   `json:"has_projector"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	table, err := h.Booking.UpdateTable(c.Request().Context(), id, body.Name, body.Seats, body.HasProjector)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// DeleteTable handles DELETE /v1/tables/:id. Deletion is refused with
// 409 while reservations reference the table.
func (h *TableHandler) DeleteTable(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Booking.DeleteTable(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTableReservations handles GET /v1/tables/:id/reservations.
func (h *TableHandler) ListTableReservations(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	reservations, err := h.Booking.ListReservationsForTable(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reservations)
}

// FindAvailable handles GET /v1/tables/available. Query parameters:
// date, time, party_size and an optional projector flag. Tables too
// small for the party or missing a required projector are omitted;
// suitable but already booked tables come back flagged taken.
func (h *TableHandler) FindAvailable(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	timeOfDay := strings.TrimSpace(c.QueryParam("time"))
	partySize, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size is required"})
	}
	requireProjector := false
	if v := c.QueryParam("projector"); v != "" {
		requireProjector = v == "true" || v == "1"
	}
	out, err := h.Booking.FindAvailableTables(c.Request().Context(), date, timeOfDay, partySize, requireProjector)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

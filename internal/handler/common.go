package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkoberg/restaurant-reservation/internal/repository"
	"github.com/mkoberg/restaurant-reservation/internal/service"
)

// parseID extracts a positive numeric path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// writeError maps service and repository sentinels onto HTTP status
// codes with a JSON error body. Anything unrecognized is treated as a
// storage failure and reported as a 500 without leaking details.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSlotTaken),
		errors.Is(err, repository.ErrTableInUse),
		errors.Is(err, service.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkoberg/restaurant-reservation/internal/service"
)

// defaultPopularLimit bounds the popular-times list in the summary when
// the caller does not ask for a specific count.
const defaultPopularLimit = 3

// StatsHandler exposes the statistics aggregator. All endpoints are
// read-only and tolerate stale data, so they sit behind the response
// cache.
type StatsHandler struct {
	Stats *service.StatsService
}

// NewStatsHandler constructs a StatsHandler and panics if the stats
// service is nil.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	if stats == nil {
		panic("nil stats service passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: stats}
}

// GetSummary handles GET /v1/stats. The optional popular_limit query
// parameter bounds the popular-times list.
func (h *StatsHandler) GetSummary(c echo.Context) error {
	limit := defaultPopularLimit
	if v := c.QueryParam("popular_limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid popular_limit"})
		}
		limit = n
	}
	summary, err := h.Stats.BuildSummary(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetPopularTimes handles GET /v1/stats/popular-times?limit=.
func (h *StatsHandler) GetPopularTimes(c echo.Context) error {
	limit := defaultPopularLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	times, err := h.Stats.PopularTimes(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"popular_times": times})
}

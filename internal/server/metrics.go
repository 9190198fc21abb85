package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultMetricsWindow = 24 * time.Hour

type metricsSummaryResponse struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	Count               int64     `json:"count"`
	AvgProcessingTimeMs float64   `json:"avgProcessingTimeMs"`
	AvgConfidence       float64   `json:"avgConfidence"`
}

// MetricsSummary serves the dashboard aggregates for [start, end); the window
// defaults to the last 24 hours.
func (h *Handler) MetricsSummary(c echo.Context) error {
	end := time.Now().UTC()
	start := end.Add(-defaultMetricsWindow)

	var err error
	if raw := c.QueryParam("start"); raw != "" {
		if start, err = time.Parse(time.RFC3339, raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start must be RFC 3339")
		}
	}
	if raw := c.QueryParam("end"); raw != "" {
		if end, err = time.Parse(time.RFC3339, raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end must be RFC 3339")
		}
	}
	if !start.Before(end) {
		return echo.NewHTTPError(http.StatusBadRequest, "start must precede end")
	}

	ctx := c.Request().Context()

	count, err := h.metrics.CountInWindow(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "metrics are unavailable")
	}

	avgTime, err := h.metrics.AvgProcessingTimeInWindow(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "metrics are unavailable")
	}

	avgConfidence, err := h.metrics.AvgConfidenceInWindow(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "metrics are unavailable")
	}

	return c.JSON(http.StatusOK, metricsSummaryResponse{
		Start:               start,
		End:                 end,
		Count:               count,
		AvgProcessingTimeMs: avgTime,
		AvgConfidence:       avgConfidence,
	})
}

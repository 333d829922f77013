package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/metrics"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/trigger"
)

// EventResponse is returned for every accepted record event.
type EventResponse struct {
	Invoked      bool   `json:"invoked"`
	InvocationID string `json:"invocation_id,omitempty"`
	Archetype    string `json:"archetype,omitempty"`
	Dispatched   bool   `json:"dispatched,omitempty"`
	Success      bool   `json:"success,omitempty"`
	Status       int    `json:"status,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleRecordEvent(c echo.Context) error {
	var ev trigger.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	qualified := trigger.Qualifies(ev, s.trigger)
	metrics.EventsTotal.WithLabelValues(strconv.FormatBool(qualified)).Inc()
	if !qualified {
		s.logger.Debug("event does not qualify",
			logging.Ticket(ev.Current.Number),
			logging.CatalogItem(ev.Current.CatalogItem),
			zap.String("state", ev.Current.State),
		)
		return c.JSON(http.StatusOK, EventResponse{Invoked: false})
	}

	settings, err := s.settings()
	if err != nil {
		s.logger.Error("could not build invocation settings", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "configuration unavailable")
	}

	res, err := s.invoker.Invoke(c.Request().Context(), settings, ev.Current.Record())
	resp := EventResponse{
		Invoked:      true,
		InvocationID: res.InvocationID,
		Archetype:    string(res.Archetype),
		Dispatched:   res.Dispatched,
		Success:      res.Outcome.Success(),
		Status:       res.Outcome.Status,
	}
	if err != nil {
		resp.Error = err.Error()
		return c.JSON(http.StatusBadGateway, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

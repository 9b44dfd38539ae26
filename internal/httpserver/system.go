package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/pkg/db"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type SystemHTTP struct {
	DB *gorm.DB
}

func (h *SystemHTTP) ping(ctx context.Context) error {
	return db.Ping(ctx, h.DB)
}

func (h *SystemHTTP) Root(c echo.Context) error {
	return c.String(http.StatusOK, "Job board API is running")
}

func (h *SystemHTTP) Status(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.ping(ctx); err != nil {
		logging.FromContext(ctx).Error("db_status_failed", "status", 503, "error", err)
		return c.String(http.StatusServiceUnavailable, "Could not connect to the database.")
	}
	return c.String(http.StatusOK, "Database connection established.")
}

func (h *SystemHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *SystemHTTP) Ready(c echo.Context) error {
	if err := h.ping(c.Request().Context()); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

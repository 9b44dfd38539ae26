package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/middleware"
	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type ApplicationHTTP struct {
	Svc *service.ApplicationService
}

func (h *ApplicationHTTP) Apply(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.apply")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		l.Warn("apply_failed", "status", 401, "reason", "no user in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.ApplyRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("apply_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	app, err := h.Svc.Apply(ctx, user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("apply_failed", "status", 409, "reason", "already applied", "user_id", user.ID, "job_id", req.JobID)
			return echo.NewHTTPError(http.StatusConflict, "You have already applied to this job")
		}
		return failed(l, "apply_failed", err, "Error applying for job")
	}

	l.Info("apply_success", "application_id", app.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

func (h *ApplicationHTTP) HasApplied(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.has_applied")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	jobID, err := parseID(c, "jobId")
	if err != nil {
		l.Warn("has_applied_failed", "status", 400, "reason", "bad job id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	applied, err := h.Svc.HasApplied(ctx, user.ID, jobID)
	if err != nil {
		return failed(l, "has_applied_failed", err, "Error checking application")
	}
	return c.JSON(http.StatusOK, map[string]bool{"hasApplied": applied})
}

func (h *ApplicationHTTP) ByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.by_user")

	userID, err := parseID(c, "user_id")
	if err != nil {
		l.Warn("applications_by_user_failed", "status", 400, "reason", "bad user id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	apps, err := h.Svc.ByUser(ctx, userID)
	if err != nil {
		return failed(l, "applications_by_user_failed", err, "Error fetching applications")
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHTTP) WithStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.with_status")

	userID, err := parseID(c, "userId")
	if err != nil {
		l.Warn("application_status_failed", "status", 400, "reason", "bad user id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	apps, err := h.Svc.StatusesForUser(ctx, userID)
	if err != nil {
		return failed(l, "application_status_failed", err, "Error fetching applications")
	}

	l.Info("application_status_success", "user_id", userID, "count", len(apps))
	return c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHTTP) Rejected(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.rejected")

	userID, err := parseID(c, "userId")
	if err != nil {
		l.Warn("rejected_failed", "status", 400, "reason", "bad user id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rows, err := h.Svc.Rejected(ctx, userID)
	if err != nil {
		return failed(l, "rejected_failed", err, "Error fetching rejected applicants")
	}
	return c.JSON(http.StatusOK, rows)
}

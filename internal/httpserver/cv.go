package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/middleware"
	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

const maxCVSize = 10 << 20

type CVHTTP struct {
	Svc *service.CVService
}

func (h *CVHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cv.upload")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	fh, err := c.FormFile("cv")
	if err != nil {
		l.Warn("upload_cv_failed", "status", 400, "reason", "missing cv file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cv file is required")
	}
	data, err := readUpload(fh, "cv", maxCVSize)
	if err != nil {
		l.Warn("upload_cv_failed", "status", 400, "reason", "cannot read cv file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cv, err := h.Svc.Upload(ctx, user.ID, data)
	if err != nil {
		return failed(l, "upload_cv_failed", err, "Error uploading CV")
	}

	l.Info("upload_cv_success", "cv_id", cv.ID, "user_id", user.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "CV uploaded successfully",
		"cvId":    cv.ID,
	})
}

func (h *CVHTTP) UserCV(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cv.user_cv")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	cv, err := h.Svc.Active(ctx, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("user_cv_failed", "status", 404, "reason", "no active cv", "user_id", user.ID)
			return echo.NewHTTPError(http.StatusNotFound, "No CV found")
		}
		return failed(l, "user_cv_failed", err, "Error fetching CV")
	}

	return c.JSON(http.StatusOK, transport.CVMeta{ID: cv.ID, UploadedAt: cv.UploadedAt, Active: cv.Active})
}

func (h *CVHTTP) Download(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cv.download")

	cvID, err := parseID(c, "cvId")
	if err != nil {
		l.Warn("download_cv_failed", "status", 400, "reason", "bad cv id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := h.Svc.Download(ctx, cvID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("download_cv_failed", "status", 404, "reason", "no active cv", "cv_id", cvID)
			return echo.NewHTTPError(http.StatusNotFound, "No CV found")
		}
		return failed(l, "download_cv_failed", err, "Error downloading CV")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	l.Info("download_cv_success", "cv_id", cvID)
	return c.Blob(http.StatusOK, "application/pdf", file.Data)
}

func (h *CVHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cv.delete")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.Svc.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_cv_failed", "status", 404, "reason", "no active cv", "user_id", user.ID)
			return echo.NewHTTPError(http.StatusNotFound, "No CV found")
		}
		return failed(l, "delete_cv_failed", err, "Error deleting CV")
	}

	l.Info("delete_cv_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, messageResponse{Message: "CV deleted successfully"})
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.upload_image")

	userID, err := parseID(c, "id")
	if err != nil {
		l.Warn("upload_image_failed", "status", 400, "reason", "bad user id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("profile_image")
	if err != nil {
		l.Warn("upload_image_failed", "status", 400, "reason", "missing image", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "No image was uploaded.")
	}
	data, err := readUpload(fh, "profile_image", service.MaxProfileImageSize)
	if err != nil {
		l.Warn("upload_image_failed", "status", 400, "reason", "cannot read image", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.SetProfileImage(ctx, userID, fh.Filename, data); err != nil {
		return failed(l, "upload_image_failed", err, "Error uploading the image.")
	}

	l.Info("upload_image_success", "user_id", userID)
	return c.JSON(http.StatusOK, messageResponse{Message: "Profile image updated successfully."})
}

func (h *UserHTTP) ProfileImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.profile_image")

	userID, err := parseID(c, "id")
	if err != nil {
		l.Warn("profile_image_failed", "status", 400, "reason", "bad user id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	img, contentType, err := h.Svc.ProfileImage(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("profile_image_failed", "status", 404, "reason", "no image", "user_id", userID)
			return echo.NewHTTPError(http.StatusNotFound, "Image not found")
		}
		return failed(l, "profile_image_failed", err, "Error fetching the profile image")
	}

	return c.Blob(http.StatusOK, contentType, img)
}

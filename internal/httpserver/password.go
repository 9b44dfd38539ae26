package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type PasswordHTTP struct {
	Svc *service.PasswordService
}

func (h *PasswordHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "password.forgot")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(ctx, req); err != nil {
		return failed(l, "forgot_password_failed", err, "could not send reset email")
	}

	l.Info("forgot_password_success")
	return c.JSON(http.StatusOK, messageResponse{Message: "A password reset link has been sent to your email."})
}

func (h *PasswordHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "password.reset")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(ctx, c.Param("token"), req); err != nil {
		return failed(l, "reset_password_failed", err, "cannot reset password")
	}

	l.Info("reset_password_success")
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

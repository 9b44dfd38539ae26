package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/transport"
	"github.com/Skotchmaster/job_board/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type registerResponse struct {
	Message string             `json:"message"`
	User    transport.UserView `json:"user"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return failed(l, "register_failed", err, "cannot register user")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User created successfully",
		User: transport.UserView{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			RoleID:   user.RoleID,
		},
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Login(ctx, req)
	if err != nil {
		return failed(l, "login_failed", err, "cannot log in")
	}

	l.Info("login_success", "user_id", resp.User.ID)
	return c.JSON(http.StatusOK, resp)
}

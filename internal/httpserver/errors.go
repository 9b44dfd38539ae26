package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_board/internal/service"
)

var sentinels = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrRateLimited, http.StatusTooManyRequests},
}

func statusOf(err error) int {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}

// detail strips the sentinel prefix so "validation error: email is required"
// reaches the client as "email is required".
func detail(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			if rest, ok := strings.CutPrefix(msg, s.err.Error()+": "); ok {
				return rest
			}
		}
	}
	return msg
}

// failed logs err and turns it into an echo.HTTPError. 5xx responses carry serverMsg only.
func failed(l *slog.Logger, event string, err error, serverMsg string) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", serverMsg, "error", err)
		return echo.NewHTTPError(code, serverMsg)
	}
	msg := detail(err)
	l.Warn(event, "status", code, "reason", msg, "error", err)
	return echo.NewHTTPError(code, msg)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}

type messageResponse struct {
	Message string `json:"message"`
}

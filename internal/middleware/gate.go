package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/pkg/logging"
	"github.com/Skotchmaster/job_board/pkg/tokens"
)

type Access int

const (
	Public Access = iota
	Authenticated
	Employer
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Employer:
		return "employer"
	default:
		return "public"
	}
}

// Policy describes what a route requires. Owner names a path param that must
// equal the caller's id unless the caller is an employer.
type Policy struct {
	APIKey bool
	Access Access
	Owner  string
}

type UserLookup interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

const (
	APIKeyHeader = "api_key"
	userCtxKey   = "user"
)

type Gate struct {
	Users     UserLookup
	JWTSecret []byte
	APIKey    string
}

func (g *Gate) Enforce(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if p.Access == Public && !p.APIKey {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "gate", "access", p.Access.String())

			if p.APIKey && !g.apiKeyValid(c.Request().Header.Get(APIKeyHeader)) {
				l.Warn("gate_denied", "status", 401, "reason", "invalid api key")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
			}
			if p.Access == Public {
				return next(c)
			}

			user, herr := g.authenticate(c)
			if herr != nil {
				l.Warn("gate_denied", "status", herr.Code, "reason", herr.Message, "error", herr.Internal)
				return herr
			}

			if p.Access == Employer && user.RoleID != models.RoleEmployer {
				l.Warn("gate_denied", "status", 403, "reason", "employer role required", "user_id", user.ID)
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			if p.Owner != "" && user.RoleID != models.RoleEmployer {
				id, err := strconv.ParseUint(c.Param(p.Owner), 10, 64)
				if err != nil || uint(id) != user.ID {
					l.Warn("gate_denied", "status", 403, "reason", "not the owner", "user_id", user.ID)
					return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
				}
			}

			c.Set(userCtxKey, user)
			return next(c)
		}
	}
}

func (g *Gate) apiKeyValid(got string) bool {
	if g.APIKey == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(g.APIKey)) == 1
}

func (g *Gate) authenticate(c echo.Context) (*models.User, *echo.HTTPError) {
	raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	claims, err := tokens.AccessClaimsFromToken(raw, g.JWTSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired").SetInternal(err)
		}
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
	}

	user, err := g.Users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "user not found").SetInternal(err)
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "cannot verify user").SetInternal(err)
	}
	return user, nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the user the gate attached to the request.
func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userCtxKey).(*models.User)
	return u, ok && u != nil
}

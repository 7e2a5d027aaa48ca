package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
)

const contextUserKey = "current_user"

// UserLoader resolves the user record behind a token's subject. The wired
// implementation is the user service's cached lookup, so per-request loads
// do not hit the database every time; role and active-flag changes
// invalidate that cache.
type UserLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// LoadUser resolves the JWT claims set by the echo-jwt middleware into a full
// user record and stashes it in the request context. Deactivated accounts are
// rejected even when their token is otherwise valid.
func LoadUser(loader UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unauthenticated()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return unauthenticated()
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return unauthenticated()
			}

			user, err := loader.Get(c.Request().Context(), userID)
			if err != nil {
				return unauthenticated()
			}
			if !user.IsActive {
				httpErr := apperrors.MapErrorToHTTP(apperrors.Forbidden("access with a deactivated account"))
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin callers with a Forbidden error naming the
// attempted operation.
func RequireAdmin(operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthenticated()
			}
			if !user.IsAdmin() {
				httpErr := apperrors.MapErrorToHTTP(apperrors.Forbidden(operation))
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by LoadUser.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(contextUserKey).(*model.User)
	return user, ok
}

// SetCurrentUser stashes a user in the context. Exposed for handler tests.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(contextUserKey, user)
}

func unauthenticated() error {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

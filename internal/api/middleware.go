package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/service/auth"
)

const notAuthorizedTemplate = "not_authorized.html"

func sessionToken(ctx echo.Context) string {
	if cookie, err := ctx.Cookie(constants.CookieKeySession); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SessionMiddleware resolves the caller once per request and stores the session in the request
// context. Requests without a valid token continue anonymously.
func (svc *APIService) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token := sessionToken(ctx)
		if token == "" {
			return next(ctx)
		}

		reqCtx := ctx.Request().Context()
		session, err := svc.authService.ResolveSession(reqCtx, token)
		if errors.Is(err, constants.ErrUnauthorized) {
			return next(ctx)
		}
		if err != nil {
			return err
		}

		reqCtx = logger.WithFields(auth.ContextWithSession(reqCtx, session), "user_id", session.UserID)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		return next(ctx)
	}
}

func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := auth.SessionFromContext(ctx.Request().Context()); !ok {
			return constants.ErrUnauthorized
		}
		return next(ctx)
	}
}

// RequireCapability answers 401 without a session and 403 when the role lacks the capability.
func RequireCapability(c auth.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			session, _ := auth.SessionFromContext(ctx.Request().Context())
			if err := auth.Authorize(session, c); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// RequirePage renders the fixed not authorized page instead of the handler when the caller
// lacks the capability, signed in or not.
func RequirePage(c auth.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			session, _ := auth.SessionFromContext(ctx.Request().Context())
			if !auth.Can(session, c) {
				return ctx.Render(http.StatusForbidden, notAuthorizedTemplate, nil)
			}
			return next(ctx)
		}
	}
}

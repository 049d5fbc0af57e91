package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

func (c *Controller) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.CookieKeySession,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *Controller) SignupUser(ctx echo.Context) error {
	var request domain.SignupUserRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	user, err := c.Auth.SignupUser(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, user)
}

func (c *Controller) LoginUser(ctx echo.Context) error {
	var request domain.LoginUserRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.Auth.LoginUser(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	ctx.SetCookie(c.sessionCookie(response.Token, int(c.cookie.TTL/time.Second)))

	return ctx.JSON(http.StatusOK, response)
}

func (c *Controller) LogoutUser(ctx echo.Context) error {
	ctx.SetCookie(c.sessionCookie("", -1))
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) GetUser(ctx echo.Context) error {
	response, err := c.Auth.GetUser(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, response)
}

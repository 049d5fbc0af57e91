package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

func (c *Controller) RunETL(ctx echo.Context) error {
	raw := strings.TrimSpace(ctx.QueryParam("year"))
	if raw == "" {
		return constants.NewValidationError("year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return constants.NewValidationError("year must be an integer, got %q", raw)
	}

	res, err := c.ETL.Run(ctx.Request().Context(), year)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

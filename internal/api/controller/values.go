package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
)

func (c *Controller) SubmitValues(ctx echo.Context) error {
	var request domain.SubmitValuesRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	written, err := c.Values.Submit(ctx.Request().Context(), request.Kind, request.Values)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, written)
}

func (c *Controller) ListValues(ctx echo.Context) error {
	scope, err := scopeParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.Values.ListValues(ctx.Request().Context(), scope)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) CalculateValue(ctx echo.Context) error {
	var request domain.CalculateRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	res, err := c.Calculator.Calculate(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) ListComputedValues(ctx echo.Context) error {
	scope, err := scopeParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.Calculator.ListComputedValues(ctx.Request().Context(), scope)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
)

func (c *Controller) CreateGoal(ctx echo.Context) error {
	var request domain.CreateGoalRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	goal, err := c.Catalog.CreateGoal(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, goal)
}

func (c *Controller) ImportGoals(ctx echo.Context) error {
	var request domain.ImportGoalsRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	result, err := c.Catalog.ImportGoals(ctx.Request().Context(), request.URL)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *Controller) ListIndicators(ctx echo.Context) error {
	indicators, err := c.Catalog.ListIndicators(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, indicators)
}

func (c *Controller) CreateIndicator(ctx echo.Context) error {
	var request domain.CreateIndicatorRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	indicator, err := c.Catalog.CreateIndicator(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, indicator)
}

func (c *Controller) SetIndicatorStatus(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.SetStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	if err = c.Catalog.SetIndicatorStatus(ctx.Request().Context(), id, request.Status); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) ListSubIndicators(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	subs, err := c.Catalog.ListSubIndicators(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, subs)
}

func (c *Controller) CreateSubIndicator(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.CreateIndicatorRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	sub, err := c.Catalog.CreateSubIndicator(ctx.Request().Context(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, sub)
}

func (c *Controller) ListRequiredData(ctx echo.Context) error {
	res, err := c.Catalog.ListRequiredData(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) CreateRequiredData(ctx echo.Context) error {
	var request domain.CreateRequiredDataRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	rd, err := c.Catalog.CreateRequiredData(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, rd)
}

func (c *Controller) BindRequiredData(ctx echo.Context) error {
	var request domain.BindRequiredDataRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	binding, err := c.Hierarchy.BindRequiredData(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, binding)
}

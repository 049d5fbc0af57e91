package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
)

func (c *Controller) GetGoalsInformation(ctx echo.Context) error {
	goals, err := c.Goals.GetGoalsInformation(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, goals)
}

func (c *Controller) GetSDGData(ctx echo.Context) error {
	data, err := c.Goals.GetSDGData(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, data)
}

func (c *Controller) GetAvailableIndicators(ctx echo.Context) error {
	goalID, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	indicators, err := c.Goals.GetAvailableIndicators(ctx.Request().Context(), goalID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, indicators)
}

func (c *Controller) AddIndicatorToGoal(ctx echo.Context) error {
	goalID, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.AddIndicatorRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	binding, err := c.Goals.AddIndicatorToGoal(ctx.Request().Context(), goalID, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, binding)
}

func (c *Controller) AddSubIndicatorToGoalIndicator(ctx echo.Context) error {
	goalIndicatorID, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.AddSubIndicatorRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	binding, err := c.Goals.AddSubIndicatorToGoalIndicator(ctx.Request().Context(), goalIndicatorID, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, binding)
}

func (c *Controller) CreateGoalDescription(ctx echo.Context) error {
	var request domain.CreateGoalDescriptionRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	description, err := c.Goals.CreateGoalDescription(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, description)
}

func (c *Controller) ListGoalDescriptions(ctx echo.Context) error {
	goalIndicatorID, err := idParam(ctx, "goalIndicatorId")
	if err != nil {
		return err
	}

	descriptions, err := c.Goals.ListGoalDescriptions(ctx.Request().Context(), goalIndicatorID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, descriptions)
}

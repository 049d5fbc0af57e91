package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
)

func (c *Controller) ListProjects(ctx echo.Context) error {
	res, err := c.Projects.ListProjects(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) GetProject(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	project, err := c.Projects.GetProject(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, project)
}

func (c *Controller) CreateProject(ctx echo.Context) error {
	var request domain.CreateProjectRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	project, err := c.Projects.CreateProject(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, project)
}

func (c *Controller) AddIndicatorToProject(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.AddIndicatorRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	binding, err := c.Projects.AddIndicatorToProject(ctx.Request().Context(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, binding)
}

func (c *Controller) AddSubIndicatorToProjectIndicator(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var request domain.AddSubIndicatorRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	binding, err := c.Projects.AddSubIndicatorToProjectIndicator(ctx.Request().Context(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, binding)
}

func (c *Controller) CompleteProject(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	project, err := c.Projects.CompleteProject(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, project)
}

func (c *Controller) ListLocations(ctx echo.Context) error {
	res, err := c.Projects.ListLocations(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) CreateLocation(ctx echo.Context) error {
	var request domain.CreateLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	location, err := c.Projects.CreateLocation(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, location)
}

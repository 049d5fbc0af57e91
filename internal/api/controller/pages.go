package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/domain/dto"
)

type goalsPage struct {
	Goals []*dto.Goal
}

type newProjectPage struct {
	Locations []*domain.Location
}

type projectPage struct {
	Project *dto.Project
}

func (c *Controller) ComputationRulesPage(ctx echo.Context) error {
	goals, err := c.Goals.GetGoalsInformation(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.Render(http.StatusOK, "computation_rules.html", goalsPage{Goals: goals})
}

func (c *Controller) ProgressPage(ctx echo.Context) error {
	goals, err := c.Goals.GetGoalsInformation(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.Render(http.StatusOK, "progress.html", goalsPage{Goals: goals})
}

func (c *Controller) NewProjectPage(ctx echo.Context) error {
	locations, err := c.Projects.ListLocations(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.Render(http.StatusOK, "project_new.html", newProjectPage{Locations: locations})
}

func (c *Controller) ProjectProgressPage(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	project, err := c.Projects.GetProject(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.Render(http.StatusOK, "project_progress.html", projectPage{Project: project})
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

func (c *Controller) ListComputationRules(ctx echo.Context) error {
	scopeType, err := domain.ParseScopeType(ctx.Param("scopeType"))
	if err != nil {
		return constants.NewValidationError("%s", err.Error())
	}

	res, err := c.Rules.ListRules(ctx.Request().Context(), scopeType)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) UpdateIndicatorComputationRule(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	owner, err := ownerQuery(ctx)
	if err != nil {
		return err
	}

	var request domain.UpdateComputationRuleRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	res, err := c.Rules.UpdateIndicatorComputationRule(ctx.Request().Context(), owner, id, request.Formula, request.CascadeToSubIndicators)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) UpdateSubIndicatorComputationRule(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	owner, err := ownerQuery(ctx)
	if err != nil {
		return err
	}

	var request domain.UpdateComputationRuleRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	res, err := c.Rules.UpdateSubIndicatorComputationRule(ctx.Request().Context(), owner, id, request.Formula)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

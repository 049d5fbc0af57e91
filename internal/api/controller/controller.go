package controller

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/calculator"
	"github.com/ougirez/sdgdash/internal/service/catalog"
	"github.com/ougirez/sdgdash/internal/service/etl"
	"github.com/ougirez/sdgdash/internal/service/goals"
	"github.com/ougirez/sdgdash/internal/service/hierarchy"
	"github.com/ougirez/sdgdash/internal/service/projects"
	"github.com/ougirez/sdgdash/internal/service/rules"
	"github.com/ougirez/sdgdash/internal/service/values"
)

type Services struct {
	Auth       *auth.Service
	Goals      *goals.Service
	Catalog    *catalog.Service
	Hierarchy  *hierarchy.Service
	Rules      *rules.Manager
	Values     *values.Writer
	Calculator *calculator.Service
	Projects   *projects.Service
	ETL        *etl.Service
}

type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type Controller struct {
	Services
	cookie CookieConfig
}

func NewController(services Services, cookie CookieConfig) *Controller {
	return &Controller{Services: services, cookie: cookie}
}

// idParam parses a positive integer path parameter. Anything else is a validation error, never 0.
func idParam(ctx echo.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, constants.NewValidationError("invalid %s: %q", name, raw)
	}
	return id, nil
}

func scopeParam(ctx echo.Context) (domain.Scope, error) {
	scopeType, err := domain.ParseScopeType(ctx.Param("scopeType"))
	if err != nil {
		return domain.Scope{}, constants.NewValidationError("%s", err.Error())
	}
	id, err := idParam(ctx, "scopeId")
	if err != nil {
		return domain.Scope{}, err
	}
	return domain.Scope{Type: scopeType, ID: id}, nil
}

func ownerQuery(ctx echo.Context) (domain.OwnerType, error) {
	owner, err := domain.ParseOwnerType(ctx.QueryParam("owner"))
	if err != nil {
		return "", constants.NewValidationError("%s", err.Error())
	}
	return owner, nil
}

package api

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/sdgdash/internal/api/controller"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
	"github.com/ougirez/sdgdash/internal/pkg/retry"
	"github.com/ougirez/sdgdash/internal/pkg/store"
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

//go:embed static
var staticFS embed.FS

type Config struct {
	CORSOrigins  []string
	Auth         auth.Config
	CookieSecure bool

	CalculatorURL     string
	CalculatorTimeout time.Duration
	CalculatorRetry   retry.Config

	LogLevel string
}

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
}

func (svc *APIService) Serve(addr string) error {
	err := svc.router.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// ServeHTTP makes the service usable with httptest.
func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	}
	return log.INFO
}

func NewAPIService(store store.Store, cfg Config) (*APIService, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(cfg.LogLevel))

	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Renderer = renderer
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := logger.WithFields(c.Request().Context(), "request_id", id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	svc.authService = auth.NewService(store, cfg.Auth)
	svc.router.Use(svc.SessionMiddleware)

	hierarchyService := hierarchy.NewService(store)
	cntrl := controller.NewController(controller.Services{
		Auth:       svc.authService,
		Goals:      goals.NewService(store, hierarchyService),
		Catalog:    catalog.NewService(store),
		Hierarchy:  hierarchyService,
		Rules:      rules.NewManager(store, hierarchyService),
		Values:     values.NewWriter(store),
		Calculator: calculator.NewService(store, calculator.NewClient(cfg.CalculatorURL, cfg.CalculatorTimeout), cfg.CalculatorRetry),
		Projects:   projects.NewService(store, hierarchyService),
		ETL:        etl.NewService(store),
	}, controller.CookieConfig{
		Secure: cfg.CookieSecure,
		TTL:    cfg.Auth.TokenTTL,
	})

	svc.router.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	svc.router.StaticFS("/static", echo.MustSubFS(staticFS, "static"))

	api := svc.router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", cntrl.SignupUser)
	authGroup.POST("/login", cntrl.LoginUser)
	authGroup.POST("/logout", cntrl.LogoutUser)
	authGroup.GET("/getUser", cntrl.GetUser, RequireSession)

	api.GET("/get-sdg-data", cntrl.GetSDGData)
	api.GET("/run-etl", cntrl.RunETL)
	api.POST("/goal_description", cntrl.CreateGoalDescription, RequireSession)
	api.GET("/goal_description/:goalIndicatorId", cntrl.ListGoalDescriptions)

	manageCatalog := RequireCapability(auth.CapManageCatalog)

	goalsGroup := api.Group("/goals")
	goalsGroup.GET("", cntrl.GetGoalsInformation)
	goalsGroup.POST("", cntrl.CreateGoal, manageCatalog)
	goalsGroup.GET("/:id/available-indicators", cntrl.GetAvailableIndicators)
	goalsGroup.POST("/:id/indicators", cntrl.AddIndicatorToGoal, manageCatalog)
	api.POST("/goal-indicators/:id/sub-indicators", cntrl.AddSubIndicatorToGoalIndicator, manageCatalog)
	api.POST("/bindings/required-data", cntrl.BindRequiredData, manageCatalog)
	api.POST("/admin/goals/import", cntrl.ImportGoals, manageCatalog)

	indicators := api.Group("/indicators")
	indicators.GET("", cntrl.ListIndicators)
	indicators.POST("", cntrl.CreateIndicator, manageCatalog)
	indicators.PUT("/:id/status", cntrl.SetIndicatorStatus, manageCatalog)
	indicators.GET("/:id/sub-indicators", cntrl.ListSubIndicators)
	indicators.POST("/:id/sub-indicators", cntrl.CreateSubIndicator, manageCatalog)

	api.GET("/required-data", cntrl.ListRequiredData)
	api.POST("/required-data", cntrl.CreateRequiredData, manageCatalog)

	computationRules := api.Group("/computation-rules")
	computationRules.GET("/:scopeType", cntrl.ListComputationRules)
	computationRules.PUT("/indicator/:id", cntrl.UpdateIndicatorComputationRule, RequireCapability(auth.CapEditComputationRules))
	computationRules.PUT("/sub-indicator/:id", cntrl.UpdateSubIndicatorComputationRule, RequireCapability(auth.CapEditComputationRules))

	api.POST("/values", cntrl.SubmitValues, RequireCapability(auth.CapSubmitProgress))
	api.GET("/values/:scopeType/:scopeId", cntrl.ListValues)
	api.POST("/calculate", cntrl.CalculateValue, RequireCapability(auth.CapSubmitProgress))
	api.GET("/computed-values/:scopeType/:scopeId", cntrl.ListComputedValues)

	createProjects := RequireCapability(auth.CapCreateProjects)

	projectsGroup := api.Group("/projects")
	projectsGroup.GET("", cntrl.ListProjects)
	projectsGroup.POST("", cntrl.CreateProject, createProjects)
	projectsGroup.GET("/:id", cntrl.GetProject)
	projectsGroup.POST("/:id/indicators", cntrl.AddIndicatorToProject, createProjects)
	projectsGroup.POST("/:id/complete", cntrl.CompleteProject, RequireCapability(auth.CapManageProjectProgress))
	api.POST("/project-indicators/:id/sub-indicators", cntrl.AddSubIndicatorToProjectIndicator, createProjects)

	api.GET("/locations", cntrl.ListLocations)
	api.POST("/locations", cntrl.CreateLocation, createProjects)

	pages := svc.router.Group("/pages")
	pages.GET("/computation-rules", cntrl.ComputationRulesPage, RequirePage(auth.CapEditComputationRules))
	pages.GET("/progress", cntrl.ProgressPage, RequirePage(auth.CapSubmitProgress))
	pages.GET("/projects/new", cntrl.NewProjectPage, RequirePage(auth.CapCreateProjects))
	pages.GET("/projects/:id/progress", cntrl.ProjectProgressPage, RequirePage(auth.CapManageProjectProgress))

	return svc, nil
}

// Package main provides the ShopMate API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/shopmate/shopmate/pkg/automation"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/persistence"
	"github.com/shopmate/shopmate/pkg/roster"
	"github.com/shopmate/shopmate/pkg/services"
	"github.com/shopmate/shopmate/pkg/stages"
	"github.com/shopmate/shopmate/pkg/web"
	"github.com/shopmate/shopmate/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	loadCounter roster.LoadCounter
	authConfig  web.AuthConfig
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	loadCounter roster.LoadCounter,
	authConfig web.AuthConfig,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		loadCounter: loadCounter,
		authConfig:  authConfig,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	automationEngine := automation.NewEngine()
	engine := workflow.NewEngine(stages.Default(), automationEngine, a.eventBus, a.logger)
	rosterService := roster.NewService(a.persistence.StaffRepository(), a.loadCounter, a.logger)

	projectService := services.NewProject(a.persistence, engine, a.eventBus, a.logger)
	taskService := services.NewTask(a.persistence, automationEngine, rosterService, a.eventBus, a.logger)
	staffService := services.NewStaff(a.persistence, a.logger)

	handlers := web.NewAPIHandlers(projectService, taskService, staffService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ShopMate API")
	})

	app.Get("/health", handlers.HealthCheck)

	auth := web.NewAuthMiddleware(a.authConfig)

	p := app.Group("/projects", auth)
	p.Get("/", handlers.GetProjects)
	p.Post("/", handlers.CreateProject)
	p.Get("/:id", handlers.GetProject)
	p.Post("/:id/advance", handlers.AdvanceProjectStage)
	p.Post("/:id/force-stage", handlers.ForceProjectStage)
	p.Post("/:id/delays", handlers.ReportProjectDelay)
	p.Get("/:id/tasks", handlers.GetProjectTasks)

	st := app.Group("/stages")
	st.Get("/", handlers.GetStages)
	st.Get("/estimate", handlers.EstimateStages)

	t := app.Group("/tasks", auth)
	t.Get("/", handlers.GetTasks)
	t.Get("/:id", handlers.GetTask)
	t.Post("/:id/assign", handlers.AssignTask)
	t.Post("/:id/start", handlers.StartTask)
	t.Post("/:id/complete", handlers.CompleteTask)

	s := app.Group("/staff", auth)
	s.Get("/", handlers.GetStaff)
	s.Post("/", handlers.CreateStaff)
	s.Get("/:id", handlers.GetStaffMember)
	s.Patch("/:id", handlers.UpdateStaffMember)

	an := app.Group("/analytics", auth)
	an.Get("/bottlenecks", handlers.GetBottlenecks)
	an.Get("/metrics", handlers.GetTaskMetrics)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}

package infrastructure

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type InfrastructureApi struct {
	controller *InfrastructureController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewInfrastructureApi(controller *InfrastructureController, config *config.Config, resolver middleware.CapabilityResolver) *InfrastructureApi {
	return &InfrastructureApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *InfrastructureApi) Setup(app *fiber.App) {
	requests := app.Group("/api/infrastructure/requests", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "infrastructure.view")
	assign := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "infrastructure.assign")
	execute := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "infrastructure.execute")
	complete := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "infrastructure.complete")

	requests.Get("/", view, h.controller.ListAll)
	requests.Get("/pending", view, h.controller.ListPending)
	requests.Get("/my-assignments", execute, h.controller.ListMyAssignments)
	requests.Get("/:id", view, h.controller.GetRequest)
	requests.Post("/", assign, h.controller.CreateRequest)
	requests.Post("/:id/assign", assign, h.controller.Assign)
	requests.Post("/:id/start", execute, h.controller.Start)
	requests.Post("/:id/update-progress", execute, h.controller.UpdateProgress)
	requests.Post("/:id/complete", complete, h.controller.Complete)
	requests.Patch("/:id/priority", assign, h.controller.UpdatePriority)
}

package automation

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewAutomationApi(controller *AutomationController, config *config.Config, resolver middleware.CapabilityResolver) *AutomationApi {
	return &AutomationApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	rules := app.Group("/api/automation/rules", middleware.AuthMiddleware(h.config.SkipAuth))

	manage := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "automation.manage")

	rules.Get("/", manage, h.controller.ListRules)
	rules.Get("/:id", manage, h.controller.GetRule)
	rules.Post("/", manage, h.controller.CreateRule)
	rules.Put("/:id", manage, h.controller.UpdateRule)
	rules.Delete("/:id", manage, h.controller.DeleteRule)
}

package role

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewRoleApi(controller *RoleController, config *config.Config, resolver middleware.CapabilityResolver) *RoleApi {
	return &RoleApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(h.config.SkipAuth))

	manage := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "roles.manage")

	roles.Get("/capabilities", manage, h.controller.ListCapabilities)
	roles.Get("/", manage, h.controller.ListRoles)
	roles.Get("/:id", manage, h.controller.GetRole)
	roles.Post("/", manage, h.controller.CreateRole)
	roles.Put("/:id/capabilities", manage, h.controller.UpdateCapabilities)
	roles.Delete("/:id", manage, h.controller.DeleteRole)
}

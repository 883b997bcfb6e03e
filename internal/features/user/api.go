package user

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewUserApi(controller *UserController, config *config.Config, resolver middleware.CapabilityResolver) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/me", h.controller.Me)
	users.Get("/", middleware.RequireCapability(h.resolver, h.config.SkipAuth, "roles.manage"), h.controller.ListUsers)
	users.Put("/:id/roles", middleware.RequireCapability(h.resolver, h.config.SkipAuth, "roles.manage"), h.controller.AssignRoles)
	users.Delete("/:id", middleware.RequireCapability(h.resolver, h.config.SkipAuth, "roles.manage"), h.controller.Deactivate)
}

package employee

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmployeeApi struct {
	controller *EmployeeController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewEmployeeApi(controller *EmployeeController, config *config.Config, resolver middleware.CapabilityResolver) *EmployeeApi {
	return &EmployeeApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *EmployeeApi) Setup(app *fiber.App) {
	employees := app.Group("/api/employees", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "employees.view")
	manage := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "employees.manage")

	employees.Get("/", view, h.controller.ListEmployees)
	employees.Get("/:id", view, h.controller.GetEmployee)
	employees.Post("/", manage, h.controller.CreateEmployee)
	employees.Put("/:id", manage, h.controller.UpdateEmployee)
	employees.Put("/:id/status", manage, h.controller.ChangeStatus)
	employees.Put("/:id/verify-documents", manage, h.controller.MarkDocumentsVerified)
}

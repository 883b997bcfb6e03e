package leave

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeaveApi struct {
	controller *LeaveController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewLeaveApi(controller *LeaveController, config *config.Config, resolver middleware.CapabilityResolver) *LeaveApi {
	return &LeaveApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *LeaveApi) Setup(app *fiber.App) {
	leaves := app.Group("/api/leave", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "leave.view")
	approve := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "leave.approve")

	// Any authenticated employee can file or cancel their own request.
	leaves.Post("/", h.controller.RequestLeave)
	leaves.Post("/:id/cancel", h.controller.Cancel)

	leaves.Get("/", view, h.controller.ListRequests)
	leaves.Get("/balance/:employeeId", view, h.controller.Balance)
	leaves.Get("/:id", view, h.controller.GetRequest)
	leaves.Post("/:id/approve", approve, h.controller.Approve)
	leaves.Post("/:id/reject", approve, h.controller.Reject)
}

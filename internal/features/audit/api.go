package audit

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewAuditApi(controller *AuditController, config *config.Config, resolver middleware.CapabilityResolver) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs", middleware.AuthMiddleware(h.config.SkipAuth))

	audit.Get("/", middleware.RequireCapability(h.resolver, h.config.SkipAuth, "audit.view"), h.controller.ListLogs)
}

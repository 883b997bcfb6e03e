package announcement

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnnouncementApi struct {
	controller *AnnouncementController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewAnnouncementApi(controller *AnnouncementController, config *config.Config, resolver middleware.CapabilityResolver) *AnnouncementApi {
	return &AnnouncementApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *AnnouncementApi) Setup(app *fiber.App) {
	announcements := app.Group("/api/announcements", middleware.AuthMiddleware(h.config.SkipAuth))

	manage := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "announcements.manage")

	announcements.Get("/feed", h.controller.ListFeed)
	announcements.Get("/", manage, h.controller.ListAll)
	announcements.Get("/:id", h.controller.Get)
	announcements.Post("/", manage, h.controller.Create)
	announcements.Put("/:id", manage, h.controller.Update)
	announcements.Post("/:id/publish", manage, h.controller.Publish)
	announcements.Delete("/:id", manage, h.controller.Delete)
}

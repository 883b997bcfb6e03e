package onboarding

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OnboardingApi struct {
	controller *OnboardingController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewOnboardingApi(controller *OnboardingController, config *config.Config, resolver middleware.CapabilityResolver) *OnboardingApi {
	return &OnboardingApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *OnboardingApi) Setup(app *fiber.App) {
	records := app.Group("/api/onboarding", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "onboarding.view")
	approve := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "onboarding.approve")

	records.Get("/", view, h.controller.ListRecords)
	records.Get("/:id", view, h.controller.GetRecord)
	records.Post("/", approve, h.controller.StartOnboarding)
	records.Post("/:id/verify", approve, h.controller.Verify)
	records.Post("/:id/approve", approve, h.controller.Approve)
	records.Post("/:id/reject", approve, h.controller.Reject)
}

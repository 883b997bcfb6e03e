package payroll

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PayrollApi struct {
	controller *PayrollController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewPayrollApi(controller *PayrollController, config *config.Config, resolver middleware.CapabilityResolver) *PayrollApi {
	return &PayrollApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *PayrollApi) Setup(app *fiber.App) {
	payroll := app.Group("/api/payroll", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "payroll.view")
	importCap := middleware.RequireCapability(h.resolver, h.config.SkipAuth, "payroll.import")

	payroll.Get("/payslips/:id", view, h.controller.GetPayslip)
	payroll.Get("/employees/:employeeId/payslips", view, h.controller.ListForEmployee)
	payroll.Get("/export", view, h.controller.ExportPeriod)
	payroll.Post("/import", importCap, h.controller.ImportPeriod)
}

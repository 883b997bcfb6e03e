package payroll

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayrollController struct {
	payrollService PayrollService
}

func NewPayrollController(payrollService PayrollService) *PayrollController {
	return &PayrollController{
		payrollService: payrollService,
	}
}

func (pc *PayrollController) ImportPeriod(c *fiber.Ctx) error {
	var body struct {
		Period string `json:"period"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := pc.payrollService.ImportPeriod(c.Context(), body.Period)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func (pc *PayrollController) GetPayslip(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payslip ID"})
	}

	slip, err := pc.payrollService.GetPayslip(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(slip)
}

func (pc *PayrollController) ListForEmployee(c *fiber.Ctx) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Params("employeeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 12))

	slips, total, err := pc.payrollService.ListForEmployee(c.Context(), employeeID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": slips,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (pc *PayrollController) ExportPeriod(c *fiber.Ctx) error {
	period := c.Query("period")

	data, err := pc.payrollService.ExportPeriod(c.Context(), period)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPeriod):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNothingToExport):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="payslips-%s.xlsx"`, period))
	return c.Send(data)
}

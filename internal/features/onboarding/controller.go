package onboarding

import (
	"errors"

	"go-hrms/internal/features/infrastructure"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnboardingController struct {
	onboardingService OnboardingService
}

func NewOnboardingController(onboardingService OnboardingService) *OnboardingController {
	return &OnboardingController{
		onboardingService: onboardingService,
	}
}

func (oc *OnboardingController) StartOnboarding(c *fiber.Ctx) error {
	var body struct {
		EmployeeID string `json:"employee_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	employeeID, err := primitive.ObjectIDFromHex(body.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	rec, err := oc.onboardingService.StartOnboarding(c.Context(), employeeID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrAlreadyOnboarded) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (oc *OnboardingController) GetRecord(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	rec, err := oc.onboardingService.GetRecord(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

func (oc *OnboardingController) ListRecords(c *fiber.Ctx) error {
	status := OnboardingStatus(c.Query("status", string(StatusPendingVerification)))
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	records, total, err := oc.onboardingService.ListByStatus(c.Context(), status, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": records,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (oc *OnboardingController) Verify(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	rec, err := oc.onboardingService.Verify(c.Context(), id)
	if err != nil {
		return oc.writeError(c, err)
	}
	return c.JSON(rec)
}

func (oc *OnboardingController) Approve(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	var body struct {
		Priority infrastructure.Priority `json:"priority"`
	}
	// Body is optional; missing priority falls back to normal.
	_ = c.BodyParser(&body)

	rec, err := oc.onboardingService.Approve(c.Context(), id, body.Priority)
	if err != nil {
		return oc.writeError(c, err)
	}
	return c.JSON(rec)
}

func (oc *OnboardingController) Reject(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := oc.onboardingService.Reject(c.Context(), id, body.Reason)
	if err != nil {
		return oc.writeError(c, err)
	}
	return c.JSON(rec)
}

func (oc *OnboardingController) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrWrongStatus):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotVerified),
		errors.Is(err, ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

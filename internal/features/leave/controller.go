package leave

import (
	"context"
	"errors"
	"time"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaveController struct {
	leaveService LeaveService
}

func NewLeaveController(leaveService LeaveService) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
	}
}

func (lc *LeaveController) RequestLeave(c *fiber.Ctx) error {
	var body struct {
		EmployeeID string    `json:"employee_id"`
		Type       LeaveType `json:"type"`
		StartDate  string    `json:"start_date"`
		EndDate    string    `json:"end_date"`
		Reason     string    `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	employeeID, err := primitive.ObjectIDFromHex(body.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end date, expected YYYY-MM-DD"})
	}

	req := &LeaveRequest{
		EmployeeID: employeeID,
		Type:       body.Type,
		StartDate:  start,
		EndDate:    end,
		Reason:     body.Reason,
	}

	created, err := lc.leaveService.RequestLeave(c.Context(), req)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrOverlappingLeave) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (lc *LeaveController) GetRequest(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	req, err := lc.leaveService.GetRequest(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(req)
}

func (lc *LeaveController) ListRequests(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	status := LeaveStatus(c.Query("status"))

	var employeeID *primitive.ObjectID
	if v := c.Query("employee_id"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
		}
		employeeID = &oid
	}

	requests, total, err := lc.leaveService.ListRequests(c.Context(), employeeID, status, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (lc *LeaveController) Approve(c *fiber.Ctx) error {
	return lc.reviewAction(c, lc.leaveService.Approve)
}

func (lc *LeaveController) Reject(c *fiber.Ctx) error {
	return lc.reviewAction(c, lc.leaveService.Reject)
}

func (lc *LeaveController) reviewAction(c *fiber.Ctx, action func(ctx context.Context, id primitive.ObjectID, note string) (*LeaveRequest, error)) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	var body struct {
		Note string `json:"note"`
	}
	_ = c.BodyParser(&body)

	req, err := action(c.Context(), id, body.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeaveNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrAlreadyReviewed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(req)
}

func (lc *LeaveController) Cancel(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	requester, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req, err := lc.leaveService.Cancel(c.Context(), id, requester)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeaveNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNotRequestOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrAlreadyReviewed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(req)
}

func (lc *LeaveController) Balance(c *fiber.Ctx) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Params("employeeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	year := c.QueryInt("year", 0)

	entries, err := lc.leaveService.Balance(c.Context(), employeeID, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": entries, "year": year})
}

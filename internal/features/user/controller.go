package user

import (
	"strconv"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// Me godoc
// @Summary Current session's user
// @Tags users
// @Produce json
// @Success 200 {object} User
// @Router /api/users/me [get]
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	claims, err := utils.Session(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := ctrl.Service.GetUser(c.Context(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

// ListUsers godoc
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	users, total, err := ctrl.Service.ListUsers(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

type assignRolesRequest struct {
	Roles []string `json:"roles"`
}

// AssignRoles godoc
func (ctrl *UserController) AssignRoles(c *fiber.Ctx) error {
	var req assignRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := ctrl.Service.AssignRoles(c.Context(), c.Params("id"), req.Roles)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

// Deactivate godoc
func (ctrl *UserController) Deactivate(c *fiber.Ctx) error {
	if err := ctrl.Service.Deactivate(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "User deactivated"})
}

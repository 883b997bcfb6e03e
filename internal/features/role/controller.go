package role

import (
	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

// ListCapabilities godoc
// @Summary List the capability catalog
// @Tags roles
// @Produce json
// @Success 200 {array} Capability
// @Router /api/roles/capabilities [get]
func (ctrl *RoleController) ListCapabilities(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.ListCapabilities(c.Context()))
}

// ListRoles godoc
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.Service.ListRoles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(roles)
}

// GetRole godoc
func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.Service.GetRole(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(role)
}

// CreateRole godoc
func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var role Role
	if err := c.BodyParser(&role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := ctrl.Service.CreateRole(c.Context(), &role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

type updateCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities"`
}

// UpdateCapabilities godoc
// @Summary Replace a role's capability set
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Router /api/roles/{id}/capabilities [put]
func (ctrl *RoleController) UpdateCapabilities(c *fiber.Ctx) error {
	var req updateCapabilitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	role, err := ctrl.Service.UpdateCapabilities(c.Context(), c.Params("id"), req.Capabilities)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(role)
}

// DeleteRole godoc
func (ctrl *RoleController) DeleteRole(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRole(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}

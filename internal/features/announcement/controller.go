package announcement

import (
	"errors"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementController struct {
	announcementService AnnouncementService
}

func NewAnnouncementController(announcementService AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

func (ac *AnnouncementController) Create(c *fiber.Ctx) error {
	var ann Announcement
	if err := c.BodyParser(&ann); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := ac.announcementService.Create(c.Context(), &ann)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ac *AnnouncementController) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	ann, err := ac.announcementService.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ann)
}

// ListFeed is the employee-facing feed, scoped by the caller's roles.
func (ac *AnnouncementController) ListFeed(c *fiber.Ctx) error {
	claims, err := utils.Session(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	announcements, total, err := ac.announcementService.ListVisible(c.Context(), claims.Roles, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": announcements,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (ac *AnnouncementController) ListAll(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	announcements, total, err := ac.announcementService.ListAll(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": announcements,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (ac *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	var body struct {
		Title    *string   `json:"title"`
		Body     *string   `json:"body"`
		Audience *[]string `json:"audience"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	update := bson.M{}
	if body.Title != nil {
		update["title"] = *body.Title
	}
	if body.Body != nil {
		update["body"] = *body.Body
	}
	if body.Audience != nil {
		update["audience"] = *body.Audience
	}
	if len(update) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	ann, err := ac.announcementService.Update(c.Context(), id, update)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ann)
}

func (ac *AnnouncementController) Publish(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	ann, err := ac.announcementService.Publish(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ann)
}

func (ac *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	if err := ac.announcementService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}

package notification

import (
	"strconv"

	"go-hrms/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
	Hub     *Hub
}

func NewNotificationController(service NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{Service: service, Hub: hub}
}

// ListMine godoc
// @Summary List the current user's notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [get]
func (ctrl *NotificationController) ListMine(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	notifications, total, err := ctrl.Service.ListForUser(c.Context(), userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data": notifications,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

// UnreadCount godoc
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	count, err := ctrl.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"unread": count})
}

// MarkAsRead godoc
func (ctrl *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ctrl.Service.MarkAsRead(c.Context(), c.Params("id"), userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead godoc
func (ctrl *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ctrl.Service.MarkAllAsRead(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// Stream upgrades to websocket and pushes new notifications until the
// client disconnects. The token travels as a query parameter because
// browsers cannot set headers on websocket upgrades.
func (ctrl *NotificationController) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token := conn.Query("token")
		claims, err := utils.ValidateToken(token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			conn.Close()
			return
		}

		ctrl.Hub.Register(claims.UserID, conn)
		defer ctrl.Hub.Unregister(claims.UserID, conn)

		// Read loop only detects disconnects; clients do not send messages
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}

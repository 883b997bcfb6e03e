package notification

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error
	ListForUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

// Notify persists the notification, then pushes it to any open websocket
// connections of the target user.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error {
	if title == "" {
		return errors.New("notification title is required")
	}

	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		Link:    link,
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	s.Hub.Publish(n)
	s.Logger.Debug("notification sent",
		zap.String("user_id", userID.Hex()),
		zap.String("title", title),
	)
	return nil
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Repo.GetByUserID(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid notification ID")
	}
	return s.Repo.MarkAsRead(ctx, objID, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.Repo.MarkAllAsRead(ctx, userID)
}

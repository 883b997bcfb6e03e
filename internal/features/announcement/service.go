package announcement

import (
	"context"
	"errors"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"
	"go-hrms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrTitleRequired        = errors.New("announcement title is required")
)

type AnnouncementService interface {
	Create(ctx context.Context, ann *Announcement) (*Announcement, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Announcement, error)

	// ListVisible returns published announcements the given roles may see.
	ListVisible(ctx context.Context, roles []string, page, limit int64) ([]Announcement, int64, error)

	// ListAll returns everything, drafts included, for the management view.
	ListAll(ctx context.Context, page, limit int64) ([]Announcement, int64, error)

	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Announcement, error)
	Publish(ctx context.Context, id primitive.ObjectID) (*Announcement, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AnnouncementServiceImpl struct {
	repo  AnnouncementRepository
	audit audit.AuditService
}

func NewAnnouncementService(repo AnnouncementRepository, auditSvc audit.AuditService) AnnouncementService {
	return &AnnouncementServiceImpl{
		repo:  repo,
		audit: auditSvc,
	}
}

func (s *AnnouncementServiceImpl) Create(ctx context.Context, ann *Announcement) (*Announcement, error) {
	if ann.Title == "" {
		return nil, ErrTitleRequired
	}
	ann.Slug = utils.Slugify(ann.Title)
	ann.Published = false

	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		if uid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			ann.CreatedBy = &uid
		}
	}

	created, err := s.repo.Create(ctx, ann)
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "announcement", created.ID.Hex(), map[string]common_models.Change{
		"title": {New: created.Title},
	})

	return created, nil
}

func (s *AnnouncementServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	ann, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return ann, nil
}

func (s *AnnouncementServiceImpl) ListVisible(ctx context.Context, roles []string, page, limit int64) ([]Announcement, int64, error) {
	page, limit = normalize(page, limit)
	filter := bson.M{
		"published": true,
		"$or": []bson.M{
			{"audience": bson.M{"$exists": false}},
			{"audience": bson.M{"$size": 0}},
			{"audience": bson.M{"$in": roles}},
		},
	}
	return s.repo.FindAll(ctx, filter, page, limit)
}

func (s *AnnouncementServiceImpl) ListAll(ctx context.Context, page, limit int64) ([]Announcement, int64, error) {
	page, limit = normalize(page, limit)
	return s.repo.FindAll(ctx, nil, page, limit)
}

func (s *AnnouncementServiceImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Announcement, error) {
	if title, ok := update["title"].(string); ok {
		update["slug"] = utils.Slugify(title)
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "announcement", id.Hex(), nil)

	return s.repo.FindByID(ctx, id)
}

func (s *AnnouncementServiceImpl) Publish(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	return s.Update(ctx, id, bson.M{"published": true})
}

func (s *AnnouncementServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.audit.LogChange(ctx, common_models.AuditActionDelete, "announcement", id.Hex(), nil)
	return nil
}

func normalize(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

package user

import (
	"context"
	"errors"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, page, limit int64) ([]User, int64, error)
	AssignRoles(ctx context.Context, id string, roles []string) (*User, error)
	Deactivate(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	AuditService audit.AuditService
}

func NewUserService(userRepo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}
	return s.UserRepo.FindByID(ctx, objID)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, page, limit int64) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.UserRepo.FindAll(ctx, page, limit)
}

func (s *UserServiceImpl) AssignRoles(ctx context.Context, id string, roles []string) (*User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	existing, err := s.UserRepo.FindByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}

	if err := s.UserRepo.Update(ctx, objID, bson.M{"roles": roles}); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"roles": {Old: existing.Roles, New: roles},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, changes)

	return s.UserRepo.FindByID(ctx, objID)
}

func (s *UserServiceImpl) Deactivate(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	if err := s.UserRepo.Update(ctx, objID, bson.M{"is_active": false}); err != nil {
		return err
	}

	changes := map[string]common_models.Change{
		"is_active": {Old: true, New: false},
	}
	return s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, changes)
}

package auth

import (
	"context"
	"errors"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/user"
	"go-hrms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, *user.User, error)
	Refresh(ctx context.Context, claims *utils.UserClaims) (string, error)
	Logout(ctx context.Context, claims *utils.UserClaims) error
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	if _, err := s.UserRepo.FindByUsername(ctx, username); err == nil {
		return nil, errors.New("username already taken")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &user.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    email,
		Password: hashed,
		Roles:    []string{"employee"},
		IsActive: true,
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"username": {Old: nil, New: username},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", newUser.ID.Hex(), changes)

	return newUser, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	if !u.IsActive {
		return "", nil, errors.New("account is deactivated")
	}
	if !utils.VerifyPassword(password, u.Password) {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(u.ID, u.Username, u.Roles)
	if err != nil {
		return "", nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "users", u.ID.Hex(), nil)

	return token, u, nil
}

// Refresh re-issues a token with the user's current roles, so role changes
// take effect without forcing a re-login.
func (s *AuthServiceImpl) Refresh(ctx context.Context, claims *utils.UserClaims) (string, error) {
	objID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return "", errors.New("invalid session")
	}

	u, err := s.UserRepo.FindByID(ctx, objID)
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", errors.New("account is deactivated")
	}

	return utils.GenerateToken(u.ID, u.Username, u.Roles)
}

// Logout is stateless (the client discards the token); the endpoint exists
// for the explicit session contract and for audit trail.
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *utils.UserClaims) error {
	return s.AuditService.LogChange(ctx, common_models.AuditActionLogout, "users", claims.UserID, nil)
}

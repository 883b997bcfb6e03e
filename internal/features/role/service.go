package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoleService is the single place roles are translated into capabilities.
// It also backs the super-admin permission console.
type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRole(ctx context.Context, id string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateCapabilities(ctx context.Context, id string, capabilities []string) (*Role, error)
	DeleteRole(ctx context.Context, id string) error
	ListCapabilities(ctx context.Context) []Capability

	// CapabilitiesForRoles satisfies middleware.CapabilityResolver
	CapabilitiesForRoles(ctx context.Context, roles []string) (map[string]bool, error)

	EnsureSystemRoles(ctx context.Context) error
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	AuditService audit.AuditService
}

func NewRoleService(roleRepo RoleRepository, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	if role.Name == "" {
		return nil, errors.New("role name is required")
	}
	for _, cap := range role.Capabilities {
		if !validCapability(cap) {
			return nil, fmt.Errorf("unknown capability: %s", cap)
		}
	}
	if role.Capabilities == nil {
		role.Capabilities = []string{}
	}
	role.IsSystem = false

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"name":         {Old: nil, New: role.Name},
		"capabilities": {Old: nil, New: role.Capabilities},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionRole, "roles", role.ID.Hex(), changes)

	return role, nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (*Role, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid role ID")
	}
	return s.RoleRepo.FindByID(ctx, objID)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.FindAll(ctx)
}

// UpdateCapabilities replaces a role's capability set (the console's checkbox matrix)
func (s *RoleServiceImpl) UpdateCapabilities(ctx context.Context, id string, capabilities []string) (*Role, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid role ID")
	}

	existing, err := s.RoleRepo.FindByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if existing.IsSystem {
		return nil, errors.New("system roles cannot be modified")
	}

	for _, cap := range capabilities {
		if !validCapability(cap) {
			return nil, fmt.Errorf("unknown capability: %s", cap)
		}
	}
	if capabilities == nil {
		capabilities = []string{}
	}

	if err := s.RoleRepo.Update(ctx, objID, bson.M{"capabilities": capabilities}); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"capabilities": {Old: existing.Capabilities, New: capabilities},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionRole, "roles", id, changes)

	return s.RoleRepo.FindByID(ctx, objID)
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid role ID")
	}

	existing, err := s.RoleRepo.FindByID(ctx, objID)
	if err != nil {
		return err
	}
	if existing.IsSystem {
		return errors.New("system roles cannot be deleted")
	}

	if err := s.RoleRepo.Delete(ctx, objID); err != nil {
		return err
	}

	changes := map[string]common_models.Change{
		"name": {Old: existing.Name, New: nil},
	}
	return s.AuditService.LogChange(ctx, common_models.AuditActionRole, "roles", id, changes)
}

func (s *RoleServiceImpl) ListCapabilities(ctx context.Context) []Capability {
	return Capabilities
}

// CapabilitiesForRoles computes the union of capabilities granted by the
// given role names. The super_admin role grants the full catalog.
func (s *RoleServiceImpl) CapabilitiesForRoles(ctx context.Context, roleNames []string) (map[string]bool, error) {
	granted := make(map[string]bool)
	if len(roleNames) == 0 {
		return granted, nil
	}

	for _, name := range roleNames {
		if name == SuperAdminRole {
			for _, c := range Capabilities {
				granted[c.Key] = true
			}
			return granted, nil
		}
	}

	roles, err := s.RoleRepo.FindByNames(ctx, roleNames)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		for _, cap := range r.Capabilities {
			granted[cap] = true
		}
	}
	return granted, nil
}

// EnsureSystemRoles seeds the built-in roles if missing
func (s *RoleServiceImpl) EnsureSystemRoles(ctx context.Context) error {
	builtins := []Role{
		{Name: SuperAdminRole, Description: "Full access", IsSystem: true, Capabilities: allCapabilityKeys()},
		{Name: "hr", Description: "HR staff", Capabilities: []string{
			"employees.view", "employees.manage", "onboarding.view", "onboarding.approve",
			"leave.view", "leave.approve", "announcements.manage", "payroll.view",
		}},
		{Name: "it_support", Description: "IT provisioning technicians", Capabilities: []string{
			"infrastructure.view", "infrastructure.execute", "infrastructure.complete", "employees.view",
		}},
		{Name: "it_manager", Description: "IT managers", Capabilities: []string{
			"infrastructure.view", "infrastructure.assign", "infrastructure.execute",
			"infrastructure.complete", "employees.view",
		}},
		{Name: "employee", Description: "Regular employee", Capabilities: []string{
			"leave.view", "payroll.view",
		}},
	}

	for i := range builtins {
		_, err := s.RoleRepo.FindByName(ctx, builtins[i].Name)
		switch {
		case err == nil:
			continue
		case errors.Is(err, mongo.ErrNoDocuments):
			builtins[i].CreatedAt = time.Now()
			builtins[i].UpdatedAt = time.Now()
			if err := s.RoleRepo.Create(ctx, &builtins[i]); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

func allCapabilityKeys() []string {
	keys := make([]string, 0, len(Capabilities))
	for _, c := range Capabilities {
		keys = append(keys, c.Key)
	}
	return keys
}

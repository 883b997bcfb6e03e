package role

import (
	"context"
	"testing"

	common_models "go-hrms/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRoleRepo struct {
	roles map[string]*Role
}

func newFakeRoleRepo(roles ...Role) *fakeRoleRepo {
	repo := &fakeRoleRepo{roles: make(map[string]*Role)}
	for i := range roles {
		r := roles[i]
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		repo.roles[r.Name] = &r
	}
	return repo
}

func (f *fakeRoleRepo) Create(ctx context.Context, role *Role) error {
	if role.ID.IsZero() {
		role.ID = primitive.NewObjectID()
	}
	f.roles[role.Name] = role
	return nil
}

func (f *fakeRoleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRoleRepo) FindByName(ctx context.Context, name string) (*Role, error) {
	if r, ok := f.roles[name]; ok {
		return r, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRoleRepo) FindByNames(ctx context.Context, names []string) ([]Role, error) {
	var out []Role
	for _, name := range names {
		if r, ok := f.roles[name]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) FindAll(ctx context.Context) ([]Role, error) {
	var out []Role
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoleRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	return nil
}

func (f *fakeRoleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	return nil
}
func (noopAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func TestCapabilitiesForRoles(t *testing.T) {
	repo := newFakeRoleRepo(
		Role{Name: "hr", Capabilities: []string{"employees.view", "leave.approve"}},
		Role{Name: "it_support", Capabilities: []string{"infrastructure.view", "infrastructure.execute"}},
	)
	svc := &RoleServiceImpl{RoleRepo: repo, AuditService: noopAudit{}}

	tests := []struct {
		name    string
		roles   []string
		granted []string
		denied  []string
	}{
		{
			name:    "single role",
			roles:   []string{"hr"},
			granted: []string{"employees.view", "leave.approve"},
			denied:  []string{"infrastructure.execute", "roles.manage"},
		},
		{
			name:    "union of roles",
			roles:   []string{"hr", "it_support"},
			granted: []string{"employees.view", "infrastructure.execute"},
			denied:  []string{"roles.manage"},
		},
		{
			name:   "unknown role grants nothing",
			roles:  []string{"ghost"},
			denied: []string{"employees.view"},
		},
		{
			name:   "no roles grants nothing",
			roles:  nil,
			denied: []string{"employees.view"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, err := svc.CapabilitiesForRoles(context.Background(), tt.roles)
			if err != nil {
				t.Fatalf("CapabilitiesForRoles: %v", err)
			}
			for _, c := range tt.granted {
				if !caps[c] {
					t.Errorf("capability %q not granted", c)
				}
			}
			for _, c := range tt.denied {
				if caps[c] {
					t.Errorf("capability %q granted unexpectedly", c)
				}
			}
		})
	}
}

func TestSuperAdminGetsFullCatalog(t *testing.T) {
	svc := &RoleServiceImpl{RoleRepo: newFakeRoleRepo(), AuditService: noopAudit{}}

	caps, err := svc.CapabilitiesForRoles(context.Background(), []string{"employee", SuperAdminRole})
	if err != nil {
		t.Fatalf("CapabilitiesForRoles: %v", err)
	}
	if len(caps) != len(Capabilities) {
		t.Fatalf("super_admin granted %d capabilities, want %d", len(caps), len(Capabilities))
	}
	for _, c := range Capabilities {
		if !caps[c.Key] {
			t.Errorf("super_admin missing capability %q", c.Key)
		}
	}
}

func TestCreateRoleRejectsUnknownCapability(t *testing.T) {
	svc := &RoleServiceImpl{RoleRepo: newFakeRoleRepo(), AuditService: noopAudit{}}

	_, err := svc.CreateRole(context.Background(), &Role{
		Name:         "qa",
		Capabilities: []string{"employees.view", "not.a.capability"},
	})
	if err == nil {
		t.Fatal("CreateRole accepted an unknown capability")
	}
}

func TestEnsureSystemRolesIsIdempotent(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := &RoleServiceImpl{RoleRepo: repo, AuditService: noopAudit{}}

	if err := svc.EnsureSystemRoles(context.Background()); err != nil {
		t.Fatalf("first EnsureSystemRoles: %v", err)
	}
	seeded := len(repo.roles)
	if seeded == 0 {
		t.Fatal("no system roles seeded")
	}
	if _, ok := repo.roles[SuperAdminRole]; !ok {
		t.Fatal("super_admin role missing")
	}

	if err := svc.EnsureSystemRoles(context.Background()); err != nil {
		t.Fatalf("second EnsureSystemRoles: %v", err)
	}
	if len(repo.roles) != seeded {
		t.Errorf("second run changed role count from %d to %d", seeded, len(repo.roles))
	}
}

package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/automation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmailTaken          = errors.New("an employee with this email already exists")
	ErrInvalidStatus       = errors.New("invalid employment status")
	ErrTerminatedImmutable = errors.New("terminated employees cannot change status")
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, emp *Employee) (*Employee, error)
	GetEmployee(ctx context.Context, id primitive.ObjectID) (*Employee, error)
	ListEmployees(ctx context.Context, search, department string, status EmploymentStatus, page, limit int64) ([]Employee, int64, error)
	UpdateEmployee(ctx context.Context, id primitive.ObjectID, update bson.M) (*Employee, error)
	ChangeStatus(ctx context.Context, id primitive.ObjectID, status EmploymentStatus) (*Employee, error)
	MarkDocumentsVerified(ctx context.Context, id primitive.ObjectID) (*Employee, error)
}

// AutomationTrigger breaks the dependency on the full automation service.
type AutomationTrigger interface {
	Dispatch(ctx context.Context, event string, record map[string]interface{})
}

type EmployeeServiceImpl struct {
	repo       EmployeeRepository
	audit      audit.AuditService
	automation AutomationTrigger
}

func NewEmployeeService(repo EmployeeRepository, auditSvc audit.AuditService, automationSvc AutomationTrigger) EmployeeService {
	return &EmployeeServiceImpl{
		repo:       repo,
		audit:      auditSvc,
		automation: automationSvc,
	}
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, emp *Employee) (*Employee, error) {
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	if emp.FirstName == "" || emp.Email == "" || emp.Department == "" {
		return nil, errors.New("first name, email and department are required")
	}

	if _, err := s.repo.FindByEmail(ctx, emp.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	code, err := s.repo.NextEmployeeCode(ctx)
	if err != nil {
		return nil, err
	}
	emp.EmployeeCode = code
	emp.Status = StatusOnboarding
	emp.DocumentsVerified = false

	created, err := s.repo.Create(ctx, emp)
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "employee", created.ID.Hex(), map[string]common_models.Change{
		"employee_code": {New: created.EmployeeCode},
		"email":         {New: created.Email},
	})
	s.automation.Dispatch(ctx, automation.EventEmployeeCreated, map[string]interface{}{
		"employee_id": created.ID.Hex(),
		"email":       created.Email,
		"department":  created.Department,
		"status":      string(created.Status),
	})

	return created, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, search, department string, status EmploymentStatus, page, limit int64) ([]Employee, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if search != "" {
		filter["$or"] = []bson.M{
			{"first_name": bson.M{"$regex": search, "$options": "i"}},
			{"last_name": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
			{"employee_code": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if department != "" {
		filter["department"] = department
	}
	if status != "" {
		if !ValidStatus(status) {
			return nil, 0, ErrInvalidStatus
		}
		filter["status"] = status
	}

	return s.repo.FindAll(ctx, filter, page, limit)
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id primitive.ObjectID, update bson.M) (*Employee, error) {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	// Status and verification have dedicated transitions
	delete(update, "status")
	delete(update, "documents_verified")
	delete(update, "employee_code")
	if len(update) == 0 {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	changes := make(map[string]common_models.Change, len(update))
	for k, v := range update {
		changes[k] = common_models.Change{New: fmt.Sprintf("%v", v)}
	}
	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "employee", id.Hex(), changes)

	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeServiceImpl) ChangeStatus(ctx context.Context, id primitive.ObjectID, status EmploymentStatus) (*Employee, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusTerminated {
		return nil, ErrTerminatedImmutable
	}
	if current.Status == status {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, bson.M{"status": status}); err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "employee", id.Hex(), map[string]common_models.Change{
		"status": {Old: string(current.Status), New: string(status)},
	})

	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeServiceImpl) MarkDocumentsVerified(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.DocumentsVerified {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, bson.M{"documents_verified": true}); err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "employee", id.Hex(), map[string]common_models.Change{
		"documents_verified": {Old: "false", New: "true"},
	})

	return s.repo.FindByID(ctx, id)
}

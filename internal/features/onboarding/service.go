package onboarding

import (
	"context"
	"errors"
	"time"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/automation"
	"go-hrms/internal/features/employee"
	"go-hrms/internal/features/infrastructure"
	"go-hrms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrRecordNotFound   = errors.New("onboarding record not found")
	ErrAlreadyOnboarded = errors.New("employee already has an onboarding record")
	ErrNotVerified      = errors.New("record must be verified before approval")
	ErrWrongStatus      = errors.New("onboarding status does not allow this transition")
	ErrReasonRequired   = errors.New("a rejection reason is required")
)

type OnboardingService interface {
	StartOnboarding(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error)
	GetRecord(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error)
	GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error)
	ListByStatus(ctx context.Context, status OnboardingStatus, page, limit int64) ([]OnboardingRecord, int64, error)

	// Verify confirms the employee's documents; pending_verification → verified.
	Verify(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error)

	// Approve moves a verified record to approved and opens the
	// infrastructure provisioning ticket for the employee.
	Approve(ctx context.Context, id primitive.ObjectID, priority infrastructure.Priority) (*OnboardingRecord, error)

	Reject(ctx context.Context, id primitive.ObjectID, reason string) (*OnboardingRecord, error)
}

// AutomationTrigger breaks the dependency on the full automation service.
type AutomationTrigger interface {
	Dispatch(ctx context.Context, event string, record map[string]interface{})
}

// EmployeeDirectory is the slice of the employee service onboarding needs.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id primitive.ObjectID) (*employee.Employee, error)
	MarkDocumentsVerified(ctx context.Context, id primitive.ObjectID) (*employee.Employee, error)
}

// ProvisioningCreator opens the infrastructure ticket at approval time.
type ProvisioningCreator interface {
	CreateRequest(ctx context.Context, employeeID primitive.ObjectID, employeeName string, priority infrastructure.Priority) (*infrastructure.ProvisioningRequest, error)
}

type OnboardingServiceImpl struct {
	repo       OnboardingRepository
	employees  EmployeeDirectory
	infra      ProvisioningCreator
	audit      audit.AuditService
	automation AutomationTrigger
}

func NewOnboardingService(repo OnboardingRepository, employeeSvc EmployeeDirectory, infraSvc ProvisioningCreator, auditSvc audit.AuditService, automationSvc AutomationTrigger) OnboardingService {
	return &OnboardingServiceImpl{
		repo:       repo,
		employees:  employeeSvc,
		infra:      infraSvc,
		audit:      auditSvc,
		automation: automationSvc,
	}
}

func (s *OnboardingServiceImpl) StartOnboarding(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmployee(ctx, employeeID); err == nil {
		return nil, ErrAlreadyOnboarded
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	rec := &OnboardingRecord{
		EmployeeID:   employeeID,
		EmployeeName: emp.FullName(),
		Status:       StatusPendingVerification,
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "onboarding", created.ID.Hex(), map[string]common_models.Change{
		"employee_id": {New: employeeID.Hex()},
		"status":      {New: string(StatusPendingVerification)},
	})

	return created, nil
}

func (s *OnboardingServiceImpl) GetRecord(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *OnboardingServiceImpl) GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error) {
	rec, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *OnboardingServiceImpl) ListByStatus(ctx context.Context, status OnboardingStatus, page, limit int64) ([]OnboardingRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.FindByStatus(ctx, status, page, limit)
}

func (s *OnboardingServiceImpl) Verify(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPendingVerification {
		return nil, ErrWrongStatus
	}

	now := time.Now()
	extra := bson.M{"verified_at": now}
	if uid, err := sessionUserID(ctx); err == nil {
		extra["verified_by"] = uid
	}

	err = s.repo.Transition(ctx, id, StatusPendingVerification, StatusVerified, extra)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWrongStatus
		}
		return nil, err
	}

	// The employee record carries the verified flag too, so HR lists can
	// filter without joining onboarding records.
	if _, err := s.employees.MarkDocumentsVerified(ctx, rec.EmployeeID); err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "onboarding", id.Hex(), map[string]common_models.Change{
		"status": {Old: string(StatusPendingVerification), New: string(StatusVerified)},
	})

	return s.repo.FindByID(ctx, id)
}

func (s *OnboardingServiceImpl) Approve(ctx context.Context, id primitive.ObjectID, priority infrastructure.Priority) (*OnboardingRecord, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == StatusPendingVerification {
		return nil, ErrNotVerified
	}
	if rec.Status != StatusVerified {
		return nil, ErrWrongStatus
	}

	// Provisioning ticket first; approval without a ticket would strand the
	// employee with no setup workflow.
	req, err := s.infra.CreateRequest(ctx, rec.EmployeeID, rec.EmployeeName, priority)
	if err != nil && !errors.Is(err, infrastructure.ErrAlreadyRequested) {
		return nil, err
	}

	now := time.Now()
	extra := bson.M{"approved_at": now}
	if req != nil {
		extra["provisioning_request_id"] = req.ID
	}
	if uid, err := sessionUserID(ctx); err == nil {
		extra["approved_by"] = uid
	}

	err = s.repo.Transition(ctx, id, StatusVerified, StatusApproved, extra)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWrongStatus
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionApproval, "onboarding", id.Hex(), map[string]common_models.Change{
		"status": {Old: string(StatusVerified), New: string(StatusApproved)},
	})
	s.automation.Dispatch(ctx, automation.EventOnboardingApproved, map[string]interface{}{
		"onboarding_id": id.Hex(),
		"employee_id":   rec.EmployeeID.Hex(),
		"employee_name": rec.EmployeeName,
	})

	return s.repo.FindByID(ctx, id)
}

func (s *OnboardingServiceImpl) Reject(ctx context.Context, id primitive.ObjectID, reason string) (*OnboardingRecord, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPendingVerification && rec.Status != StatusVerified {
		return nil, ErrWrongStatus
	}

	now := time.Now()
	err = s.repo.Transition(ctx, id, rec.Status, StatusRejected, bson.M{
		"rejection_reason": reason,
		"rejected_at":      now,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWrongStatus
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "onboarding", id.Hex(), map[string]common_models.Change{
		"status":           {Old: string(rec.Status), New: string(StatusRejected)},
		"rejection_reason": {New: reason},
	})

	return s.repo.FindByID(ctx, id)
}

func sessionUserID(ctx context.Context) (primitive.ObjectID, error) {
	claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, utils.ErrNoSession
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

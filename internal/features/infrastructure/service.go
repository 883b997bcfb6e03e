package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/automation"
	"go-hrms/internal/features/notification"
	"go-hrms/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrRequestNotFound   = errors.New("provisioning request not found")
	ErrUnknownStep       = errors.New("unknown setup step")
	ErrPhotoRequired     = errors.New("a photo is required to complete this step")
	ErrNoteRequired      = errors.New("this step requires additional information")
	ErrStepAlreadyDone   = errors.New("step is already completed and cannot be changed")
	ErrRequestNotStarted = errors.New("request must be started before steps can be completed")
	ErrInvalidTransition = errors.New("status can only move forward")
	ErrStepsIncomplete   = errors.New("all setup steps must be completed first")
	ErrNotesRequired     = errors.New("completion notes are required")
	ErrNotAssignee       = errors.New("request is assigned to another user")
	ErrPriorityLocked    = errors.New("priority can only be changed before assignment")
	ErrAlreadyRequested  = errors.New("employee already has a provisioning request")
	ErrAssigneeRequired  = errors.New("an assignee is required")
)

// UploadFunc stores an attachment and returns its URL. The service invokes
// it only after all validation passes, so a rejected submission never
// writes a file.
type UploadFunc func(ctx context.Context) (string, error)

// AutomationTrigger breaks the dependency on the full automation service.
type AutomationTrigger interface {
	Dispatch(ctx context.Context, event string, record map[string]interface{})
}

type InfrastructureService interface {
	CreateRequest(ctx context.Context, employeeID primitive.ObjectID, employeeName string, priority Priority) (*ProvisioningRequest, error)
	GetRequest(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error)
	ListPending(ctx context.Context, page, limit int64) ([]ProvisioningRequest, int64, error)
	ListRequests(ctx context.Context, status RequestStatus, page, limit int64) ([]ProvisioningRequest, int64, error)
	ListMyAssignments(ctx context.Context, assignee primitive.ObjectID, page, limit int64) ([]ProvisioningRequest, int64, error)
	Assign(ctx context.Context, id, assignee primitive.ObjectID) (*ProvisioningRequest, error)

	// EnsureStarted transitions assigned → in_progress exactly once. Calling
	// it on a request already in progress or completed is a no-op.
	EnsureStarted(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error)

	SubmitStep(ctx context.Context, id primitive.ObjectID, step SetupStep, note string, photo UploadFunc) (*ProvisioningRequest, error)
	Complete(ctx context.Context, id primitive.ObjectID, notes string, completionPhoto, handoverPhoto UploadFunc) (*ProvisioningRequest, error)
	UpdatePriority(ctx context.Context, id primitive.ObjectID, priority Priority) (*ProvisioningRequest, error)
}

type InfrastructureServiceImpl struct {
	repo         RequestRepository
	audit        audit.AuditService
	notification notification.NotificationService
	automation   AutomationTrigger
}

func NewInfrastructureService(repo RequestRepository, auditSvc audit.AuditService, notifSvc notification.NotificationService, automationSvc AutomationTrigger) InfrastructureService {
	return &InfrastructureServiceImpl{
		repo:         repo,
		audit:        auditSvc,
		notification: notifSvc,
		automation:   automationSvc,
	}
}

func (s *InfrastructureServiceImpl) CreateRequest(ctx context.Context, employeeID primitive.ObjectID, employeeName string, priority Priority) (*ProvisioningRequest, error) {
	if priority == "" {
		priority = PriorityNormal
	}
	if !ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}

	if _, err := s.repo.FindByEmployee(ctx, employeeID); err == nil {
		return nil, ErrAlreadyRequested
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	req := &ProvisioningRequest{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Status:       StatusPending,
		Priority:     priority,
		Progress:     0,
		Steps:        NewStepMap(),
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionProvisioning, "infrastructure", created.ID.Hex(), map[string]common_models.Change{
		"ticket_number": {New: created.TicketNumber},
		"status":        {New: string(StatusPending)},
	})

	return created, nil
}

func (s *InfrastructureServiceImpl) GetRequest(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *InfrastructureServiceImpl) ListPending(ctx context.Context, page, limit int64) ([]ProvisioningRequest, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.FindByStatus(ctx, StatusPending, page, limit)
}

func (s *InfrastructureServiceImpl) ListRequests(ctx context.Context, status RequestStatus, page, limit int64) ([]ProvisioningRequest, int64, error) {
	page, limit = normalizePage(page, limit)
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.repo.FindAll(ctx, filter, page, limit)
}

func (s *InfrastructureServiceImpl) ListMyAssignments(ctx context.Context, assignee primitive.ObjectID, page, limit int64) ([]ProvisioningRequest, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.FindByAssignee(ctx, assignee, page, limit)
}

func (s *InfrastructureServiceImpl) Assign(ctx context.Context, id, assignee primitive.ObjectID) (*ProvisioningRequest, error) {
	if assignee.IsZero() {
		return nil, ErrAssigneeRequired
	}

	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	err = s.repo.TransitionStatus(ctx, id, StatusPending, StatusAssigned, bson.M{
		"assigned_to": assignee,
		"assigned_at": now,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "infrastructure", id.Hex(), map[string]common_models.Change{
		"status":      {Old: string(StatusPending), New: string(StatusAssigned)},
		"assigned_to": {New: assignee.Hex()},
	})

	s.notification.Notify(ctx, assignee,
		"New setup task assigned",
		fmt.Sprintf("Infrastructure setup %s for %s has been assigned to you", current.TicketNumber, current.EmployeeName),
		notification.NotificationTypeTask,
		"/infrastructure/requests/"+id.Hex())

	return s.repo.FindByID(ctx, id)
}

func (s *InfrastructureServiceImpl) EnsureStarted(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error) {
	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	switch current.Status {
	case StatusInProgress, StatusCompleted:
		return current, nil
	case StatusPending:
		return nil, ErrInvalidTransition
	}

	if err := s.checkAssignee(ctx, current); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.repo.TransitionStatus(ctx, id, StatusAssigned, StatusInProgress, bson.M{"started_at": now})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	// A lost race means another call already started the request, which is
	// exactly the state we wanted.

	if err == nil {
		s.audit.LogChange(ctx, common_models.AuditActionUpdate, "infrastructure", id.Hex(), map[string]common_models.Change{
			"status": {Old: string(StatusAssigned), New: string(StatusInProgress)},
		})
	}

	return s.repo.FindByID(ctx, id)
}

func (s *InfrastructureServiceImpl) SubmitStep(ctx context.Context, id primitive.ObjectID, step SetupStep, note string, photo UploadFunc) (*ProvisioningRequest, error) {
	if !ValidStep(step) {
		return nil, ErrUnknownStep
	}
	if photo == nil {
		return nil, ErrPhotoRequired
	}
	note = strings.TrimSpace(note)
	if StepRequiresNote(step) && note == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoteRequired, StepNoteLabel(step))
	}

	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusInProgress {
		return nil, ErrRequestNotStarted
	}
	if err := s.checkAssignee(ctx, current); err != nil {
		return nil, err
	}
	if current.Steps[step].Completed {
		return nil, ErrStepAlreadyDone
	}

	// All validation passed; only now is the attachment stored.
	photoURL, err := photo(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := StepRecord{
		Completed:   true,
		PhotoURL:    photoURL,
		Note:        note,
		CompletedAt: &now,
	}
	if uid, err := sessionUserID(ctx); err == nil {
		record.CompletedBy = &uid
	}

	steps := current.Steps
	steps[step] = record
	progress := ComputeProgress(steps)

	if err := s.repo.CompleteStep(ctx, id, step, record, progress); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStepAlreadyDone
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "infrastructure", id.Hex(), map[string]common_models.Change{
		"steps." + string(step): {Old: "pending", New: "completed"},
		"progress":              {Old: fmt.Sprintf("%d", current.Progress), New: fmt.Sprintf("%d", progress)},
	})

	return s.repo.FindByID(ctx, id)
}

func (s *InfrastructureServiceImpl) Complete(ctx context.Context, id primitive.ObjectID, notes string, completionPhoto, handoverPhoto UploadFunc) (*ProvisioningRequest, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrNotesRequired
	}

	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusInProgress {
		return nil, ErrInvalidTransition
	}
	if err := s.checkAssignee(ctx, current); err != nil {
		return nil, err
	}
	if ComputeProgress(current.Steps) != 100 {
		return nil, ErrStepsIncomplete
	}

	extra := bson.M{
		"completion_notes": notes,
		"completed_at":     time.Now(),
	}
	if completionPhoto != nil {
		url, err := completionPhoto(ctx)
		if err != nil {
			return nil, err
		}
		extra["completion_photo_url"] = url
	}
	if handoverPhoto != nil {
		url, err := handoverPhoto(ctx)
		if err != nil {
			return nil, err
		}
		extra["handover_photo_url"] = url
	}

	err = s.repo.TransitionStatus(ctx, id, StatusInProgress, StatusCompleted, extra)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionProvisioning, "infrastructure", id.Hex(), map[string]common_models.Change{
		"status": {Old: string(StatusInProgress), New: string(StatusCompleted)},
	})
	s.automation.Dispatch(ctx, automation.EventInfrastructureCompleted, map[string]interface{}{
		"request_id":    id.Hex(),
		"ticket_number": current.TicketNumber,
		"employee_id":   current.EmployeeID.Hex(),
		"employee_name": current.EmployeeName,
		"priority":      string(current.Priority),
	})

	return s.repo.FindByID(ctx, id)
}

func (s *InfrastructureServiceImpl) UpdatePriority(ctx context.Context, id primitive.ObjectID, priority Priority) (*ProvisioningRequest, error) {
	if !ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}

	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, ErrPriorityLocked
	}

	if err := s.repo.UpdatePriority(ctx, id, priority); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPriorityLocked
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "infrastructure", id.Hex(), map[string]common_models.Change{
		"priority": {Old: string(current.Priority), New: string(priority)},
	})

	return s.repo.FindByID(ctx, id)
}

// checkAssignee rejects step work from users the request is not assigned to.
// Admin contexts without a session (system calls) are allowed through.
func (s *InfrastructureServiceImpl) checkAssignee(ctx context.Context, req *ProvisioningRequest) error {
	if req.AssignedTo == nil {
		return nil
	}
	uid, err := sessionUserID(ctx)
	if err != nil {
		return nil
	}
	if uid != *req.AssignedTo {
		return ErrNotAssignee
	}
	return nil
}

func sessionUserID(ctx context.Context) (primitive.ObjectID, error) {
	claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, utils.ErrNoSession
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

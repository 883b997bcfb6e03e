package leave

import (
	"context"
	"errors"
	"fmt"
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
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrInvalidLeaveType = errors.New("invalid leave type")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrZeroWorkingDays  = errors.New("requested range contains no working days")
	ErrOverlappingLeave = errors.New("an overlapping leave request already exists")
	ErrInsufficientDays = errors.New("insufficient leave balance")
	ErrAlreadyReviewed  = errors.New("leave request has already been reviewed")
	ErrNotRequestOwner  = errors.New("leave request belongs to another employee")
)

type LeaveService interface {
	RequestLeave(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error)
	GetRequest(ctx context.Context, id primitive.ObjectID) (*LeaveRequest, error)
	ListRequests(ctx context.Context, employeeID *primitive.ObjectID, status LeaveStatus, page, limit int64) ([]LeaveRequest, int64, error)
	Approve(ctx context.Context, id primitive.ObjectID, note string) (*LeaveRequest, error)
	Reject(ctx context.Context, id primitive.ObjectID, note string) (*LeaveRequest, error)
	Cancel(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID) (*LeaveRequest, error)
	Balance(ctx context.Context, employeeID primitive.ObjectID, year int) ([]BalanceEntry, error)
}

// AutomationTrigger breaks the dependency on the full automation service.
type AutomationTrigger interface {
	Dispatch(ctx context.Context, event string, record map[string]interface{})
}

type LeaveServiceImpl struct {
	repo         LeaveRepository
	audit        audit.AuditService
	notification notification.NotificationService
	automation   AutomationTrigger
}

func NewLeaveService(repo LeaveRepository, auditSvc audit.AuditService, notifSvc notification.NotificationService, automationSvc AutomationTrigger) LeaveService {
	return &LeaveServiceImpl{
		repo:         repo,
		audit:        auditSvc,
		notification: notifSvc,
		automation:   automationSvc,
	}
}

func (s *LeaveServiceImpl) RequestLeave(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error) {
	if !ValidLeaveType(req.Type) {
		return nil, ErrInvalidLeaveType
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	req.Days = WorkingDays(req.StartDate, req.EndDate)
	if req.Days == 0 {
		return nil, ErrZeroWorkingDays
	}

	overlapping, err := s.repo.FindOverlapping(ctx, req.EmployeeID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrOverlappingLeave
	}

	if entitled, capped := entitlements[req.Type]; capped {
		balance, err := s.typeBalance(ctx, req.EmployeeID, req.Type, req.StartDate.Year())
		if err != nil {
			return nil, err
		}
		if balance.Used+balance.PendingDays+req.Days > entitled {
			return nil, ErrInsufficientDays
		}
	}

	req.Status = LeavePending
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "leave", created.ID.Hex(), map[string]common_models.Change{
		"type": {New: string(created.Type)},
		"days": {New: fmt.Sprintf("%d", created.Days)},
	})

	return created, nil
}

func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id primitive.ObjectID) (*LeaveRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *LeaveServiceImpl) ListRequests(ctx context.Context, employeeID *primitive.ObjectID, status LeaveStatus, page, limit int64) ([]LeaveRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if employeeID != nil {
		filter["employee_id"] = *employeeID
	}
	if status != "" {
		filter["status"] = status
	}
	return s.repo.FindAll(ctx, filter, page, limit)
}

func (s *LeaveServiceImpl) Approve(ctx context.Context, id primitive.ObjectID, note string) (*LeaveRequest, error) {
	req, err := s.review(ctx, id, LeaveApproved, note)
	if err != nil {
		return nil, err
	}

	s.notification.Notify(ctx, req.EmployeeID,
		"Leave approved",
		fmt.Sprintf("Your %s leave from %s has been approved", req.Type, req.StartDate.Format("2006-01-02")),
		notification.NotificationTypeSuccess, "")
	s.automation.Dispatch(ctx, automation.EventLeaveApproved, map[string]interface{}{
		"leave_id":    id.Hex(),
		"employee_id": req.EmployeeID.Hex(),
		"type":        string(req.Type),
		"days":        req.Days,
	})

	return req, nil
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, id primitive.ObjectID, note string) (*LeaveRequest, error) {
	req, err := s.review(ctx, id, LeaveRejected, note)
	if err != nil {
		return nil, err
	}

	s.notification.Notify(ctx, req.EmployeeID,
		"Leave rejected",
		fmt.Sprintf("Your %s leave from %s has been rejected", req.Type, req.StartDate.Format("2006-01-02")),
		notification.NotificationTypeWarning, "")

	return req, nil
}

func (s *LeaveServiceImpl) review(ctx context.Context, id primitive.ObjectID, to LeaveStatus, note string) (*LeaveRequest, error) {
	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != LeavePending {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now()
	extra := bson.M{"reviewed_at": now, "review_note": note}
	if uid, err := sessionUserID(ctx); err == nil {
		extra["reviewed_by"] = uid
	}

	if err := s.repo.Review(ctx, id, to, extra); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionApproval, "leave", id.Hex(), map[string]common_models.Change{
		"status": {Old: string(LeavePending), New: string(to)},
	})

	return s.repo.FindByID(ctx, id)
}

func (s *LeaveServiceImpl) Cancel(ctx context.Context, id primitive.ObjectID, requester primitive.ObjectID) (*LeaveRequest, error) {
	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.EmployeeID != requester {
		return nil, ErrNotRequestOwner
	}
	if current.Status != LeavePending {
		return nil, ErrAlreadyReviewed
	}

	if err := s.repo.Review(ctx, id, LeaveCanceled, bson.M{}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *LeaveServiceImpl) Balance(ctx context.Context, employeeID primitive.ObjectID, year int) ([]BalanceEntry, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	requests, err := s.repo.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	used := map[LeaveType]int{}
	pending := map[LeaveType]int{}
	for _, r := range requests {
		switch r.Status {
		case LeaveApproved:
			used[r.Type] += r.Days
		case LeavePending:
			pending[r.Type] += r.Days
		}
	}

	entries := make([]BalanceEntry, 0, 4)
	for _, t := range []LeaveType{LeaveAnnual, LeaveSick, LeaveParental, LeaveUnpaid} {
		entry := BalanceEntry{
			Type:        t,
			Used:        used[t],
			PendingDays: pending[t],
		}
		if entitled, capped := entitlements[t]; capped {
			entry.Entitled = entitled
			entry.Remaining = entitled - used[t]
		} else {
			entry.Uncapped = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaveServiceImpl) typeBalance(ctx context.Context, employeeID primitive.ObjectID, t LeaveType, year int) (BalanceEntry, error) {
	entries, err := s.Balance(ctx, employeeID, year)
	if err != nil {
		return BalanceEntry{}, err
	}
	for _, e := range entries {
		if e.Type == t {
			return e, nil
		}
	}
	return BalanceEntry{Type: t}, nil
}

func sessionUserID(ctx context.Context) (primitive.ObjectID, error) {
	claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, utils.ErrNoSession
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

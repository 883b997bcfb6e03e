package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeLeaveRepo struct {
	requests map[primitive.ObjectID]*LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[primitive.ObjectID]*LeaveRequest)}
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error) {
	req.ID = primitive.NewObjectID()
	cp := *req
	r.requests[req.ID] = &cp
	return req, nil
}

func (r *fakeLeaveRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *req
	return &cp, nil
}

func (r *fakeLeaveRepo) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]LeaveRequest, int64, error) {
	var out []LeaveRequest
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) FindByEmployeeAndYear(ctx context.Context, employeeID primitive.ObjectID, year int) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.StartDate.Year() == year {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) FindOverlapping(ctx context.Context, employeeID primitive.ObjectID, start, end time.Time) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != LeavePending && req.Status != LeaveApproved {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) Review(ctx context.Context, id primitive.ObjectID, to LeaveStatus, extra bson.M) error {
	req, ok := r.requests[id]
	if !ok || req.Status != LeavePending {
		return mongo.ErrNoDocuments
	}
	req.Status = to
	return nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	return nil
}
func (noopAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type countingNotifier struct {
	sent int
}

func (n *countingNotifier) Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType notification.NotificationType, link string) error {
	n.sent++
	return nil
}
func (n *countingNotifier) ListForUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (n *countingNotifier) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (n *countingNotifier) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	return nil
}
func (n *countingNotifier) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return nil
}

type recordingTrigger struct {
	events []string
}

func (r *recordingTrigger) Dispatch(ctx context.Context, event string, record map[string]interface{}) {
	r.events = append(r.events, event)
}

func newTestLeave(t *testing.T) (LeaveService, *countingNotifier, *recordingTrigger) {
	t.Helper()
	notifier := &countingNotifier{}
	trigger := &recordingTrigger{}
	svc := &LeaveServiceImpl{
		repo:         newFakeLeaveRepo(),
		audit:        noopAudit{},
		notification: notifier,
		automation:   trigger,
	}
	return svc, notifier, trigger
}

func TestRequestLeaveComputesWorkingDays(t *testing.T) {
	svc, _, _ := newTestLeave(t)

	req, err := svc.RequestLeave(context.Background(), &LeaveRequest{
		EmployeeID: primitive.NewObjectID(),
		Type:       LeaveAnnual,
		StartDate:  date(2026, time.August, 24),
		EndDate:    date(2026, time.August, 30),
	})
	if err != nil {
		t.Fatalf("RequestLeave: %v", err)
	}
	if req.Days != 5 {
		t.Errorf("days = %d, want 5 (weekend excluded)", req.Days)
	}
	if req.Status != LeavePending {
		t.Errorf("status = %s, want pending", req.Status)
	}
}

func TestRequestLeaveRejectsOverlap(t *testing.T) {
	svc, _, _ := newTestLeave(t)
	employeeID := primitive.NewObjectID()

	first := &LeaveRequest{
		EmployeeID: employeeID,
		Type:       LeaveAnnual,
		StartDate:  date(2026, time.August, 24),
		EndDate:    date(2026, time.August, 28),
	}
	if _, err := svc.RequestLeave(context.Background(), first); err != nil {
		t.Fatalf("first request: %v", err)
	}

	second := &LeaveRequest{
		EmployeeID: employeeID,
		Type:       LeaveSick,
		StartDate:  date(2026, time.August, 27),
		EndDate:    date(2026, time.August, 31),
	}
	if _, err := svc.RequestLeave(context.Background(), second); !errors.Is(err, ErrOverlappingLeave) {
		t.Fatalf("overlapping request: err = %v, want ErrOverlappingLeave", err)
	}
}

func TestRequestLeaveEnforcesEntitlement(t *testing.T) {
	svc, _, _ := newTestLeave(t)
	employeeID := primitive.NewObjectID()

	// 24 annual days; a 5 week request exceeds it.
	_, err := svc.RequestLeave(context.Background(), &LeaveRequest{
		EmployeeID: employeeID,
		Type:       LeaveAnnual,
		StartDate:  date(2026, time.June, 1),
		EndDate:    date(2026, time.July, 10),
	})
	if !errors.Is(err, ErrInsufficientDays) {
		t.Fatalf("oversized request: err = %v, want ErrInsufficientDays", err)
	}

	// Unpaid leave has no cap.
	if _, err := svc.RequestLeave(context.Background(), &LeaveRequest{
		EmployeeID: employeeID,
		Type:       LeaveUnpaid,
		StartDate:  date(2026, time.June, 1),
		EndDate:    date(2026, time.July, 10),
	}); err != nil {
		t.Fatalf("unpaid request: %v", err)
	}
}

func TestApproveNotifiesAndDispatches(t *testing.T) {
	svc, notifier, trigger := newTestLeave(t)

	req, err := svc.RequestLeave(context.Background(), &LeaveRequest{
		EmployeeID: primitive.NewObjectID(),
		Type:       LeaveSick,
		StartDate:  date(2026, time.August, 24),
		EndDate:    date(2026, time.August, 25),
	})
	if err != nil {
		t.Fatalf("RequestLeave: %v", err)
	}

	approved, err := svc.Approve(context.Background(), req.ID, "get well soon")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != LeaveApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if notifier.sent != 1 {
		t.Errorf("notifications = %d, want 1", notifier.sent)
	}
	if len(trigger.events) != 1 || trigger.events[0] != "leave.approved" {
		t.Errorf("events = %v", trigger.events)
	}

	// Review is terminal.
	if _, err := svc.Reject(context.Background(), req.ID, "no"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("Reject after approval: err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestBalanceSummary(t *testing.T) {
	svc, _, _ := newTestLeave(t)
	employeeID := primitive.NewObjectID()

	req, err := svc.RequestLeave(context.Background(), &LeaveRequest{
		EmployeeID: employeeID,
		Type:       LeaveAnnual,
		StartDate:  date(2026, time.August, 24),
		EndDate:    date(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("RequestLeave: %v", err)
	}
	if _, err := svc.Approve(context.Background(), req.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	entries, err := svc.Balance(context.Background(), employeeID, 2026)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}

	var annual *BalanceEntry
	for i := range entries {
		if entries[i].Type == LeaveAnnual {
			annual = &entries[i]
		}
	}
	if annual == nil {
		t.Fatal("no annual entry in balance summary")
	}
	if annual.Used != 5 || annual.Remaining != 19 {
		t.Errorf("annual balance = used %d remaining %d, want 5/19", annual.Used, annual.Remaining)
	}
}

package onboarding

import (
	"context"
	"errors"
	"testing"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/employee"
	"go-hrms/internal/features/infrastructure"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeOnboardingRepo struct {
	records map[primitive.ObjectID]*OnboardingRecord
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{records: make(map[primitive.ObjectID]*OnboardingRecord)}
}

func (r *fakeOnboardingRepo) Create(ctx context.Context, rec *OnboardingRecord) (*OnboardingRecord, error) {
	rec.ID = primitive.NewObjectID()
	cp := *rec
	r.records[rec.ID] = &cp
	return rec, nil
}

func (r *fakeOnboardingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeOnboardingRepo) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeOnboardingRepo) FindByStatus(ctx context.Context, status OnboardingStatus, page, limit int64) ([]OnboardingRecord, int64, error) {
	var out []OnboardingRecord
	for _, rec := range r.records {
		if rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOnboardingRepo) Transition(ctx context.Context, id primitive.ObjectID, from, to OnboardingStatus, extra bson.M) error {
	rec, ok := r.records[id]
	if !ok || rec.Status != from {
		return mongo.ErrNoDocuments
	}
	rec.Status = to
	if v, ok := extra["rejection_reason"].(string); ok {
		rec.RejectionReason = v
	}
	if v, ok := extra["provisioning_request_id"].(primitive.ObjectID); ok {
		rec.ProvisioningRequestID = &v
	}
	return nil
}

type fakeDirectory struct {
	employees map[primitive.ObjectID]*employee.Employee
	verified  int
}

func (d *fakeDirectory) GetEmployee(ctx context.Context, id primitive.ObjectID) (*employee.Employee, error) {
	if emp, ok := d.employees[id]; ok {
		return emp, nil
	}
	return nil, employee.ErrEmployeeNotFound
}

func (d *fakeDirectory) MarkDocumentsVerified(ctx context.Context, id primitive.ObjectID) (*employee.Employee, error) {
	emp, err := d.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.DocumentsVerified = true
	d.verified++
	return emp, nil
}

type fakeProvisioner struct {
	created []primitive.ObjectID
	err     error
}

func (p *fakeProvisioner) CreateRequest(ctx context.Context, employeeID primitive.ObjectID, employeeName string, priority infrastructure.Priority) (*infrastructure.ProvisioningRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	req := &infrastructure.ProvisioningRequest{
		ID:           primitive.NewObjectID(),
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Status:       infrastructure.StatusPending,
	}
	p.created = append(p.created, req.ID)
	return req, nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	return nil
}
func (noopAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type recordingTrigger struct {
	events []string
}

func (r *recordingTrigger) Dispatch(ctx context.Context, event string, record map[string]interface{}) {
	r.events = append(r.events, event)
}

func newTestOnboarding(t *testing.T) (OnboardingService, *fakeDirectory, *fakeProvisioner, *recordingTrigger, primitive.ObjectID) {
	t.Helper()
	empID := primitive.NewObjectID()
	dir := &fakeDirectory{employees: map[primitive.ObjectID]*employee.Employee{
		empID: {ID: empID, FirstName: "Jane", LastName: "Doe", Status: employee.StatusOnboarding},
	}}
	prov := &fakeProvisioner{}
	trigger := &recordingTrigger{}
	svc := &OnboardingServiceImpl{
		repo:       newFakeOnboardingRepo(),
		employees:  dir,
		infra:      prov,
		audit:      noopAudit{},
		automation: trigger,
	}
	return svc, dir, prov, trigger, empID
}

func TestApproveOpensProvisioningTicket(t *testing.T) {
	svc, dir, prov, trigger, empID := newTestOnboarding(t)
	ctx := context.Background()

	rec, err := svc.StartOnboarding(ctx, empID)
	if err != nil {
		t.Fatalf("StartOnboarding: %v", err)
	}
	if rec.Status != StatusPendingVerification {
		t.Fatalf("initial status = %s", rec.Status)
	}

	if _, err := svc.Verify(ctx, rec.ID); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if dir.verified != 1 {
		t.Errorf("employee verification calls = %d, want 1", dir.verified)
	}

	approved, err := svc.Approve(ctx, rec.ID, infrastructure.PriorityHigh)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if len(prov.created) != 1 {
		t.Fatalf("provisioning requests created = %d, want 1", len(prov.created))
	}
	if approved.ProvisioningRequestID == nil || *approved.ProvisioningRequestID != prov.created[0] {
		t.Errorf("record not linked to its provisioning request")
	}
	if len(trigger.events) != 1 || trigger.events[0] != "onboarding.approved" {
		t.Errorf("dispatched events = %v", trigger.events)
	}
}

func TestApproveRequiresVerification(t *testing.T) {
	svc, _, prov, _, empID := newTestOnboarding(t)
	ctx := context.Background()

	rec, err := svc.StartOnboarding(ctx, empID)
	if err != nil {
		t.Fatalf("StartOnboarding: %v", err)
	}

	if _, err := svc.Approve(ctx, rec.ID, ""); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Approve before verify: err = %v, want ErrNotVerified", err)
	}
	if len(prov.created) != 0 {
		t.Errorf("a provisioning request was created for an unverified record")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _, _, _, empID := newTestOnboarding(t)
	ctx := context.Background()

	rec, err := svc.StartOnboarding(ctx, empID)
	if err != nil {
		t.Fatalf("StartOnboarding: %v", err)
	}

	if _, err := svc.Reject(ctx, rec.ID, ""); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("Reject without reason: err = %v, want ErrReasonRequired", err)
	}

	rejected, err := svc.Reject(ctx, rec.ID, "incomplete documents")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectionReason != "incomplete documents" {
		t.Errorf("rejected record = %+v", rejected)
	}

	// Terminal state: no further transitions.
	if _, err := svc.Verify(ctx, rec.ID); !errors.Is(err, ErrWrongStatus) {
		t.Errorf("Verify after rejection: err = %v, want ErrWrongStatus", err)
	}
}

func TestStartOnboardingRejectsDuplicate(t *testing.T) {
	svc, _, _, _, empID := newTestOnboarding(t)
	ctx := context.Background()

	if _, err := svc.StartOnboarding(ctx, empID); err != nil {
		t.Fatalf("first StartOnboarding: %v", err)
	}
	if _, err := svc.StartOnboarding(ctx, empID); !errors.Is(err, ErrAlreadyOnboarded) {
		t.Fatalf("duplicate StartOnboarding: err = %v, want ErrAlreadyOnboarded", err)
	}
}

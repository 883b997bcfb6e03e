package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"testing"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeRequestRepo keeps requests in memory and enforces the same conditional
// update guards as the Mongo implementation.
type fakeRequestRepo struct {
	requests    map[primitive.ObjectID]*ProvisioningRequest
	transitions int
	stepWrites  int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[primitive.ObjectID]*ProvisioningRequest)}
}

func (r *fakeRequestRepo) clone(req *ProvisioningRequest) *ProvisioningRequest {
	cp := *req
	cp.Steps = make(map[SetupStep]StepRecord, len(req.Steps))
	for k, v := range req.Steps {
		cp.Steps[k] = v
	}
	return &cp
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *ProvisioningRequest) (*ProvisioningRequest, error) {
	req.ID = primitive.NewObjectID()
	req.TicketNumber = fmt.Sprintf("INF-%06d", len(r.requests)+1)
	r.requests[req.ID] = r.clone(req)
	return req, nil
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r.clone(req), nil
}

func (r *fakeRequestRepo) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*ProvisioningRequest, error) {
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			return r.clone(req), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRequestRepo) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]ProvisioningRequest, int64, error) {
	var out []ProvisioningRequest
	for _, req := range r.requests {
		if status, ok := filter["status"]; ok && req.Status != status {
			continue
		}
		out = append(out, *r.clone(req))
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) FindByStatus(ctx context.Context, status RequestStatus, page, limit int64) ([]ProvisioningRequest, int64, error) {
	var out []ProvisioningRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *r.clone(req))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) FindByAssignee(ctx context.Context, assignee primitive.ObjectID, page, limit int64) ([]ProvisioningRequest, int64, error) {
	var out []ProvisioningRequest
	for _, req := range r.requests {
		if req.AssignedTo != nil && *req.AssignedTo == assignee && req.Status != StatusCompleted {
			out = append(out, *r.clone(req))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to RequestStatus, extra bson.M) error {
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return mongo.ErrNoDocuments
	}
	req.Status = to
	if v, ok := extra["assigned_to"].(primitive.ObjectID); ok {
		req.AssignedTo = &v
	}
	if v, ok := extra["completion_notes"].(string); ok {
		req.CompletionNotes = v
	}
	if v, ok := extra["completion_photo_url"].(string); ok {
		req.CompletionPhotoURL = v
	}
	if v, ok := extra["handover_photo_url"].(string); ok {
		req.HandoverPhotoURL = v
	}
	r.transitions++
	return nil
}

func (r *fakeRequestRepo) CompleteStep(ctx context.Context, id primitive.ObjectID, step SetupStep, record StepRecord, progress int) error {
	req, ok := r.requests[id]
	if !ok || req.Status != StatusInProgress || req.Steps[step].Completed {
		return mongo.ErrNoDocuments
	}
	req.Steps[step] = record
	req.Progress = progress
	r.stepWrites++
	return nil
}

func (r *fakeRequestRepo) UpdatePriority(ctx context.Context, id primitive.ObjectID, priority Priority) error {
	req, ok := r.requests[id]
	if !ok || req.Status != StatusPending {
		return mongo.ErrNoDocuments
	}
	req.Priority = priority
	return nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	return nil
}
func (fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent int
}

func (n *fakeNotifier) Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType notification.NotificationType, link string) error {
	n.sent++
	return nil
}
func (n *fakeNotifier) ListForUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (n *fakeNotifier) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (n *fakeNotifier) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	return nil
}
func (n *fakeNotifier) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return nil
}

type fakeAutomation struct {
	dispatched []string
}

func (f *fakeAutomation) Dispatch(ctx context.Context, event string, record map[string]interface{}) {
	f.dispatched = append(f.dispatched, event)
}

func newTestService(t *testing.T) (InfrastructureService, *fakeRequestRepo, *fakeNotifier, *fakeAutomation) {
	t.Helper()
	repo := newFakeRequestRepo()
	notifier := &fakeNotifier{}
	autom := &fakeAutomation{}
	svc := &InfrastructureServiceImpl{
		repo:         repo,
		audit:        fakeAudit{},
		notification: notifier,
		automation:   autom,
	}
	return svc, repo, notifier, autom
}

func assignedRequest(t *testing.T, svc InfrastructureService, repo *fakeRequestRepo) *ProvisioningRequest {
	t.Helper()
	ctx := context.Background()
	req, err := svc.CreateRequest(ctx, primitive.NewObjectID(), "Jane Doe", PriorityNormal)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	req, err = svc.Assign(ctx, req.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	return req
}

func startedRequest(t *testing.T, svc InfrastructureService, repo *fakeRequestRepo) *ProvisioningRequest {
	t.Helper()
	req := assignedRequest(t, svc, repo)
	req, err := svc.EnsureStarted(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	return req
}

func photoStub(url string) UploadFunc {
	return func(ctx context.Context) (string, error) { return url, nil }
}

func TestSubmitStepRequiresPhoto(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	_, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", nil)
	if !errors.Is(err, ErrPhotoRequired) {
		t.Fatalf("SubmitStep without photo: err = %v, want ErrPhotoRequired", err)
	}
	if repo.stepWrites != 0 {
		t.Errorf("step was written despite rejected submission")
	}
}

func TestSubmitStepRequiresNoteForCertainSteps(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	uploaded := false
	photo := func(ctx context.Context) (string, error) {
		uploaded = true
		return "/files/photo.jpg", nil
	}

	_, err := svc.SubmitStep(context.Background(), req.ID, StepLaptop, "   ", photo)
	if !errors.Is(err, ErrNoteRequired) {
		t.Fatalf("SubmitStep laptop without serial: err = %v, want ErrNoteRequired", err)
	}
	if uploaded {
		t.Errorf("photo was uploaded despite validation failure")
	}
	if repo.stepWrites != 0 {
		t.Errorf("step was written despite validation failure")
	}
}

func TestSubmitStepWifiNeedsNoNote(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	updated, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", photoStub("/files/wifi.jpg"))
	if err != nil {
		t.Fatalf("SubmitStep wifi: %v", err)
	}
	if !updated.Steps[StepWifi].Completed {
		t.Errorf("wifi step not completed")
	}
	if updated.Steps[StepWifi].PhotoURL != "/files/wifi.jpg" {
		t.Errorf("photo url = %q", updated.Steps[StepWifi].PhotoURL)
	}
	if updated.Progress != 20 {
		t.Errorf("progress = %d, want 20", updated.Progress)
	}
}

func TestSubmitStepEmailRoundTrip(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	updated, err := svc.SubmitStep(context.Background(), req.ID, StepEmail, "jane.doe@company.com", photoStub("/files/email.jpg"))
	if err != nil {
		t.Fatalf("SubmitStep email: %v", err)
	}
	rec := updated.Steps[StepEmail]
	if !rec.Completed {
		t.Fatalf("email step not completed after submission")
	}
	if rec.Note != "jane.doe@company.com" {
		t.Errorf("stored note = %q, want the submitted address", rec.Note)
	}

	// The canonical record, refetched, carries the same state.
	fetched, err := svc.GetRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if !fetched.Steps[StepEmail].Completed || fetched.Steps[StepEmail].Note != "jane.doe@company.com" {
		t.Errorf("refetched email step = %+v", fetched.Steps[StepEmail])
	}
}

func TestSubmitStepRejectsCompletedStep(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	if _, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", photoStub("/a.jpg")); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	_, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", photoStub("/b.jpg"))
	if !errors.Is(err, ErrStepAlreadyDone) {
		t.Fatalf("second submission: err = %v, want ErrStepAlreadyDone", err)
	}
	if got := repo.stepWrites; got != 1 {
		t.Errorf("step writes = %d, want 1", got)
	}
}

func TestSubmitStepRequiresStartedRequest(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := assignedRequest(t, svc, repo)

	_, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", photoStub("/a.jpg"))
	if !errors.Is(err, ErrRequestNotStarted) {
		t.Fatalf("SubmitStep on assigned request: err = %v, want ErrRequestNotStarted", err)
	}
}

func TestStepsAutoAdvanceToBiometric(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	notes := map[SetupStep]string{
		StepLaptop: "SN-12345",
		StepEmail:  "jane.doe@company.com",
		StepIDCard: "CARD-777",
	}

	var updated *ProvisioningRequest
	var err error
	for _, step := range []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard} {
		updated, err = svc.SubmitStep(context.Background(), req.ID, step, notes[step], photoStub("/files/"+string(step)+".jpg"))
		if err != nil {
			t.Fatalf("SubmitStep(%s): %v", step, err)
		}
	}

	next, hasNext := NextIncompleteStep(updated.Steps)
	if !hasNext || next != StepBiometric {
		t.Fatalf("after four steps next = %q (hasNext=%v), want biometric", next, hasNext)
	}
	if updated.Progress != 80 {
		t.Errorf("progress = %d, want 80", updated.Progress)
	}

	updated, err = svc.SubmitStep(context.Background(), req.ID, StepBiometric, "", photoStub("/files/bio.jpg"))
	if err != nil {
		t.Fatalf("SubmitStep(biometric): %v", err)
	}
	if _, hasNext := NextIncompleteStep(updated.Steps); hasNext {
		t.Errorf("steps remain after completing all five")
	}
	if updated.Progress != 100 {
		t.Errorf("progress = %d, want 100", updated.Progress)
	}
}

func TestEnsureStartedIsIdempotent(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := assignedRequest(t, svc, repo)

	before := repo.transitions

	first, err := svc.EnsureStarted(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("first EnsureStarted: %v", err)
	}
	if first.Status != StatusInProgress {
		t.Fatalf("status = %s, want in_progress", first.Status)
	}

	second, err := svc.EnsureStarted(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("second EnsureStarted: %v", err)
	}
	if second.Status != StatusInProgress {
		t.Errorf("status after repeat = %s", second.Status)
	}

	if got := repo.transitions - before; got != 1 {
		t.Errorf("start transitions = %d, want exactly 1", got)
	}
}

func TestEnsureStartedRejectsPendingRequest(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req, err := svc.CreateRequest(context.Background(), primitive.NewObjectID(), "Jane Doe", PriorityNormal)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if _, err := svc.EnsureStarted(context.Background(), req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("EnsureStarted on pending: err = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteRequiresNotes(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	before := repo.transitions
	_, err := svc.Complete(context.Background(), req.ID, "   ", nil, nil)
	if !errors.Is(err, ErrNotesRequired) {
		t.Fatalf("Complete with blank notes: err = %v, want ErrNotesRequired", err)
	}
	if repo.transitions != before {
		t.Errorf("a transition occurred despite blank notes")
	}
}

func TestCompleteRequiresAllSteps(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	req := startedRequest(t, svc, repo)

	if _, err := svc.SubmitStep(context.Background(), req.ID, StepWifi, "", photoStub("/a.jpg")); err != nil {
		t.Fatalf("SubmitStep: %v", err)
	}

	_, err := svc.Complete(context.Background(), req.ID, "all done", nil, nil)
	if !errors.Is(err, ErrStepsIncomplete) {
		t.Fatalf("Complete with 1/5 steps: err = %v, want ErrStepsIncomplete", err)
	}
}

func TestCompleteFinalizesRequest(t *testing.T) {
	svc, repo, _, autom := newTestService(t)
	req := startedRequest(t, svc, repo)

	notes := map[SetupStep]string{
		StepLaptop: "SN-1",
		StepEmail:  "a@b.c",
		StepIDCard: "C-1",
	}
	for _, step := range StepOrder {
		if _, err := svc.SubmitStep(context.Background(), req.ID, step, notes[step], photoStub("/p.jpg")); err != nil {
			t.Fatalf("SubmitStep(%s): %v", step, err)
		}
	}

	done, err := svc.Complete(context.Background(), req.ID, "handed over to employee", photoStub("/done.jpg"), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", done.Status)
	}
	if done.CompletionNotes != "handed over to employee" {
		t.Errorf("completion notes = %q", done.CompletionNotes)
	}
	if done.CompletionPhotoURL != "/done.jpg" {
		t.Errorf("completion photo = %q", done.CompletionPhotoURL)
	}
	if len(autom.dispatched) != 1 || autom.dispatched[0] != "infrastructure.completed" {
		t.Errorf("dispatched events = %v", autom.dispatched)
	}

	// Completed is terminal.
	if _, err := svc.Complete(context.Background(), req.ID, "again", nil, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Complete: err = %v, want ErrInvalidTransition", err)
	}
}

func TestAssignNotifiesAndLocksPriority(t *testing.T) {
	svc, repo, notifier, _ := newTestService(t)
	req := assignedRequest(t, svc, repo)

	if notifier.sent != 1 {
		t.Errorf("notifications sent = %d, want 1", notifier.sent)
	}

	_, err := svc.UpdatePriority(context.Background(), req.ID, PriorityUrgent)
	if !errors.Is(err, ErrPriorityLocked) {
		t.Fatalf("UpdatePriority after assignment: err = %v, want ErrPriorityLocked", err)
	}
}

func TestUpdatePriorityBeforeAssignment(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req, err := svc.CreateRequest(context.Background(), primitive.NewObjectID(), "Jane Doe", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.Priority != PriorityNormal {
		t.Errorf("default priority = %s, want normal", req.Priority)
	}

	updated, err := svc.UpdatePriority(context.Background(), req.ID, PriorityUrgent)
	if err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}
	if updated.Priority != PriorityUrgent {
		t.Errorf("priority = %s, want urgent", updated.Priority)
	}
}

func TestCreateRequestRejectsDuplicateEmployee(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	employeeID := primitive.NewObjectID()

	if _, err := svc.CreateRequest(context.Background(), employeeID, "Jane Doe", PriorityNormal); err != nil {
		t.Fatalf("first CreateRequest: %v", err)
	}
	if _, err := svc.CreateRequest(context.Background(), employeeID, "Jane Doe", PriorityNormal); !errors.Is(err, ErrAlreadyRequested) {
		t.Fatalf("duplicate CreateRequest: err = %v, want ErrAlreadyRequested", err)
	}
}

package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestRepository interface {
	Create(ctx context.Context, req *ProvisioningRequest) (*ProvisioningRequest, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*ProvisioningRequest, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]ProvisioningRequest, int64, error)
	FindByStatus(ctx context.Context, status RequestStatus, page, limit int64) ([]ProvisioningRequest, int64, error)
	FindByAssignee(ctx context.Context, assignee primitive.ObjectID, page, limit int64) ([]ProvisioningRequest, int64, error)

	// TransitionStatus applies update only when the stored status still equals
	// from. Returns mongo.ErrNoDocuments when the guard fails, which callers
	// treat as a lost race or an illegal transition.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to RequestStatus, extra bson.M) error

	// CompleteStep records a step's evidence only while the request is
	// in_progress and the step is not already completed.
	CompleteStep(ctx context.Context, id primitive.ObjectID, step SetupStep, record StepRecord, progress int) error

	UpdatePriority(ctx context.Context, id primitive.ObjectID, priority Priority) error
}

type RequestRepositoryImpl struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewRequestRepository(db *database.MongodbDB) RequestRepository {
	return &RequestRepositoryImpl{
		collection: db.DB.Collection("provisioning_requests"),
		counters:   db.DB.Collection("counters"),
	}
}

func (r *RequestRepositoryImpl) nextTicketNumber(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "infrastructure_ticket"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INF-%06d", counter.Seq), nil
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, req *ProvisioningRequest) (*ProvisioningRequest, error) {
	ticket, err := r.nextTicketNumber(ctx)
	if err != nil {
		return nil, err
	}

	req.ID = primitive.NewObjectID()
	req.TicketNumber = ticket
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*ProvisioningRequest, error) {
	var req ProvisioningRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*ProvisioningRequest, error) {
	var req ProvisioningRequest
	err := r.collection.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) findPaged(ctx context.Context, filter bson.M, page, limit int64) ([]ProvisioningRequest, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []ProvisioningRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *RequestRepositoryImpl) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]ProvisioningRequest, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.findPaged(ctx, filter, page, limit)
}

func (r *RequestRepositoryImpl) FindByStatus(ctx context.Context, status RequestStatus, page, limit int64) ([]ProvisioningRequest, int64, error) {
	return r.findPaged(ctx, bson.M{"status": status}, page, limit)
}

func (r *RequestRepositoryImpl) FindByAssignee(ctx context.Context, assignee primitive.ObjectID, page, limit int64) ([]ProvisioningRequest, int64, error) {
	filter := bson.M{
		"assigned_to": assignee,
		"status":      bson.M{"$in": []RequestStatus{StatusAssigned, StatusInProgress}},
	}
	return r.findPaged(ctx, filter, page, limit)
}

func (r *RequestRepositoryImpl) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to RequestStatus, extra bson.M) error {
	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range extra {
		set[k] = v
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RequestRepositoryImpl) CompleteStep(ctx context.Context, id primitive.ObjectID, step SetupStep, record StepRecord, progress int) error {
	field := "steps." + string(step)
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                id,
			"status":             StatusInProgress,
			field + ".completed": false,
		},
		bson.M{"$set": bson.M{
			field:        record,
			"progress":   progress,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RequestRepositoryImpl) UpdatePriority(ctx context.Context, id primitive.ObjectID, priority Priority) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{"priority": priority, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

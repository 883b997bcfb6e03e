package leave

import (
	"context"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeaveRepository interface {
	Create(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]LeaveRequest, int64, error)
	FindByEmployeeAndYear(ctx context.Context, employeeID primitive.ObjectID, year int) ([]LeaveRequest, error)
	FindOverlapping(ctx context.Context, employeeID primitive.ObjectID, start, end time.Time) ([]LeaveRequest, error)

	// Review applies update only while the request is still pending.
	Review(ctx context.Context, id primitive.ObjectID, to LeaveStatus, extra bson.M) error
}

type LeaveRepositoryImpl struct {
	collection *mongo.Collection
}

func NewLeaveRepository(db *database.MongodbDB) LeaveRepository {
	return &LeaveRepositoryImpl{
		collection: db.DB.Collection("leave_requests"),
	}
}

func (r *LeaveRepositoryImpl) Create(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error) {
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *LeaveRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *LeaveRepositoryImpl) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]LeaveRequest, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}

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

	var requests []LeaveRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *LeaveRepositoryImpl) FindByEmployeeAndYear(ctx context.Context, employeeID primitive.ObjectID, year int) ([]LeaveRequest, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	cursor, err := r.collection.Find(ctx, bson.M{
		"employee_id": employeeID,
		"start_date":  bson.M{"$gte": yearStart, "$lt": yearEnd},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []LeaveRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *LeaveRepositoryImpl) FindOverlapping(ctx context.Context, employeeID primitive.ObjectID, start, end time.Time) ([]LeaveRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"employee_id": employeeID,
		"status":      bson.M{"$in": []LeaveStatus{LeavePending, LeaveApproved}},
		"start_date":  bson.M{"$lte": end},
		"end_date":    bson.M{"$gte": start},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []LeaveRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *LeaveRepositoryImpl) Review(ctx context.Context, id primitive.ObjectID, to LeaveStatus, extra bson.M) error {
	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range extra {
		set[k] = v
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": LeavePending},
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

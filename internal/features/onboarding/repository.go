package onboarding

import (
	"context"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OnboardingRepository interface {
	Create(ctx context.Context, rec *OnboardingRecord) (*OnboardingRecord, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error)
	FindByStatus(ctx context.Context, status OnboardingStatus, page, limit int64) ([]OnboardingRecord, int64, error)

	// Transition applies update only when the stored status still equals from.
	Transition(ctx context.Context, id primitive.ObjectID, from, to OnboardingStatus, extra bson.M) error
}

type OnboardingRepositoryImpl struct {
	collection *mongo.Collection
}

func NewOnboardingRepository(db *database.MongodbDB) OnboardingRepository {
	return &OnboardingRepositoryImpl{
		collection: db.DB.Collection("onboarding_records"),
	}
}

func (r *OnboardingRepositoryImpl) Create(ctx context.Context, rec *OnboardingRecord) (*OnboardingRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *OnboardingRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*OnboardingRecord, error) {
	var rec OnboardingRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *OnboardingRepositoryImpl) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*OnboardingRecord, error) {
	var rec OnboardingRecord
	err := r.collection.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *OnboardingRepositoryImpl) FindByStatus(ctx context.Context, status OnboardingStatus, page, limit int64) ([]OnboardingRecord, int64, error) {
	filter := bson.M{"status": status}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []OnboardingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *OnboardingRepositoryImpl) Transition(ctx context.Context, id primitive.ObjectID, from, to OnboardingStatus, extra bson.M) error {
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

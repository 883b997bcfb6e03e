package announcement

import (
	"context"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, ann *Announcement) (*Announcement, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Announcement, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AnnouncementRepositoryImpl struct {
	collection *mongo.Collection
}

func NewAnnouncementRepository(db *database.MongodbDB) AnnouncementRepository {
	return &AnnouncementRepositoryImpl{
		collection: db.DB.Collection("announcements"),
	}
}

func (r *AnnouncementRepositoryImpl) Create(ctx context.Context, ann *Announcement) (*Announcement, error) {
	ann.ID = primitive.NewObjectID()
	ann.CreatedAt = time.Now()
	ann.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, ann); err != nil {
		return nil, err
	}
	return ann, nil
}

func (r *AnnouncementRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	var ann Announcement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ann)
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *AnnouncementRepositoryImpl) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Announcement, int64, error) {
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

	var announcements []Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (r *AnnouncementRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AnnouncementRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

package file

import (
	"context"
	"errors"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FileRepository interface {
	Save(ctx context.Context, file *File) error
	Get(ctx context.Context, id primitive.ObjectID) (*File, error)
	FindByRecord(ctx context.Context, moduleName, recordID string) ([]*File, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FileRepositoryImpl struct {
	collection *mongo.Collection
}

func NewFileRepository(db *database.MongodbDB) FileRepository {
	return &FileRepositoryImpl{
		collection: db.DB.Collection("files"),
	}
}

func (r *FileRepositoryImpl) Save(ctx context.Context, file *File) error {
	file.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, file)
	if err != nil {
		return err
	}
	file.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FileRepositoryImpl) Get(ctx context.Context, id primitive.ObjectID) (*File, error) {
	var f File
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("file not found")
		}
		return nil, err
	}
	return &f, nil
}

func (r *FileRepositoryImpl) FindByRecord(ctx context.Context, moduleName, recordID string) ([]*File, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"module_name": moduleName, "record_id": recordID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []*File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

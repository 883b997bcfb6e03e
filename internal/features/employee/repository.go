package employee

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

type EmployeeRepository interface {
	Create(ctx context.Context, emp *Employee) (*Employee, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Employee, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	NextEmployeeCode(ctx context.Context) (string, error)
}

type EmployeeRepositoryImpl struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewEmployeeRepository(db *database.MongodbDB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		collection: db.DB.Collection("employees"),
		counters:   db.DB.Collection("counters"),
	}
}

func (r *EmployeeRepositoryImpl) Create(ctx context.Context, emp *Employee) (*Employee, error) {
	emp.ID = primitive.NewObjectID()
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, emp)
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *EmployeeRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	var emp Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&emp)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var emp Employee
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&emp)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var emp Employee
	err := r.collection.FindOne(ctx, bson.M{"employee_code": code}).Decode(&emp)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Employee, int64, error) {
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
		SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var employees []Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *EmployeeRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
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

// NextEmployeeCode allocates a sequential code from the counters collection.
func (r *EmployeeRepositoryImpl) NextEmployeeCode(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "employee_code"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EMP-%05d", counter.Seq), nil
}

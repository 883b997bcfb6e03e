package payroll

import (
	"context"
	"time"

	"go-hrms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PayrollRepository interface {
	Upsert(ctx context.Context, slip *Payslip) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Payslip, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]Payslip, int64, error)
	FindByPeriod(ctx context.Context, period string) ([]Payslip, error)
}

type PayrollRepositoryImpl struct {
	collection *mongo.Collection
}

func NewPayrollRepository(db *database.MongodbDB) PayrollRepository {
	return &PayrollRepositoryImpl{
		collection: db.DB.Collection("payslips"),
	}
}

// Upsert keys on employee and period so re-imports overwrite instead of
// duplicating.
func (r *PayrollRepositoryImpl) Upsert(ctx context.Context, slip *Payslip) error {
	slip.ImportedAt = time.Now()

	filter := bson.M{"employee_id": slip.EmployeeID, "period": slip.Period}
	update := bson.M{"$set": bson.M{
		"employee_code": slip.EmployeeCode,
		"gross_pay":     slip.GrossPay,
		"deductions":    slip.Deductions,
		"net_pay":       slip.NetPay,
		"currency":      slip.Currency,
		"imported_at":   slip.ImportedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *PayrollRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Payslip, error) {
	var slip Payslip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&slip)
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *PayrollRepositoryImpl) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]Payslip, int64, error) {
	filter := bson.M{"employee_id": employeeID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "period", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var slips []Payslip
	if err := cursor.All(ctx, &slips); err != nil {
		return nil, 0, err
	}
	return slips, total, nil
}

func (r *PayrollRepositoryImpl) FindByPeriod(ctx context.Context, period string) ([]Payslip, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"period": period},
		options.Find().SetSort(bson.D{{Key: "employee_code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slips []Payslip
	if err := cursor.All(ctx, &slips); err != nil {
		return nil, err
	}
	return slips, nil
}

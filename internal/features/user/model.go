package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account. Employee records live in the employee feature;
// EmployeeID links an account to its HR record when one exists.
type User struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Username   string              `json:"username" bson:"username"`
	Email      string              `json:"email" bson:"email"`
	Password   string              `json:"-" bson:"password"`
	Roles      []string            `json:"roles" bson:"roles"`
	EmployeeID *primitive.ObjectID `json:"employee_id,omitempty" bson:"employee_id,omitempty"`
	IsActive   bool                `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

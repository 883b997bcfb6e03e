package employee

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmploymentStatus string

const (
	StatusOnboarding EmploymentStatus = "onboarding"
	StatusActive     EmploymentStatus = "active"
	StatusOnLeave    EmploymentStatus = "on_leave"
	StatusTerminated EmploymentStatus = "terminated"
)

type Employee struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeCode      string             `bson:"employee_code" json:"employee_code"`
	FirstName         string             `bson:"first_name" json:"first_name"`
	LastName          string             `bson:"last_name" json:"last_name"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Department        string             `bson:"department" json:"department"`
	Designation       string             `bson:"designation" json:"designation"`
	ReportingTo       primitive.ObjectID `bson:"reporting_to,omitempty" json:"reporting_to,omitempty"`
	JoiningDate       time.Time          `bson:"joining_date" json:"joining_date"`
	Status            EmploymentStatus   `bson:"status" json:"status"`
	DocumentsVerified bool               `bson:"documents_verified" json:"documents_verified"`
	CreatedBy         primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func ValidStatus(s EmploymentStatus) bool {
	switch s {
	case StatusOnboarding, StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

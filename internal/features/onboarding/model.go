package onboarding

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnboardingStatus string

const (
	StatusPendingVerification OnboardingStatus = "pending_verification"
	StatusVerified            OnboardingStatus = "verified"
	StatusApproved            OnboardingStatus = "approved"
	StatusRejected            OnboardingStatus = "rejected"
)

type OnboardingRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID   primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName string             `bson:"employee_name" json:"employee_name"`
	Status       OnboardingStatus   `bson:"status" json:"status"`

	VerifiedBy *primitive.ObjectID `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerifiedAt *time.Time          `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	ApprovedBy *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`

	RejectionReason string     `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`

	// ProvisioningRequestID links to the infrastructure ticket created at approval.
	ProvisioningRequestID *primitive.ObjectID `bson:"provisioning_request_id,omitempty" json:"provisioning_request_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

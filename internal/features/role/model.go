package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Capability is a single named permission a view or endpoint can require
type Capability struct {
	Key         string `bson:"key" json:"key"`
	Description string `bson:"description" json:"description"`
}

// Capabilities is the fixed catalog the super-admin console manages.
// Routes declare one of these keys; roles grant sets of them.
var Capabilities = []Capability{
	{Key: "employees.view", Description: "View employee records"},
	{Key: "employees.manage", Description: "Create and edit employee records"},
	{Key: "onboarding.view", Description: "View onboarding records"},
	{Key: "onboarding.approve", Description: "Approve or reject onboarding of verified employees"},
	{Key: "infrastructure.view", Description: "View provisioning requests"},
	{Key: "infrastructure.assign", Description: "Assign provisioning requests to technicians"},
	{Key: "infrastructure.execute", Description: "Start requests and submit setup steps"},
	{Key: "infrastructure.complete", Description: "Finalize provisioning requests"},
	{Key: "leave.view", Description: "View leave requests"},
	{Key: "leave.approve", Description: "Approve or reject leave requests"},
	{Key: "payroll.view", Description: "View payslips"},
	{Key: "payroll.import", Description: "Import payslips from the legacy HRIS"},
	{Key: "announcements.manage", Description: "Publish and edit announcements"},
	{Key: "automation.manage", Description: "Manage automation rules"},
	{Key: "roles.manage", Description: "Manage roles and capability grants"},
	{Key: "audit.view", Description: "View audit logs"},
	{Key: "files.manage", Description: "Delete uploaded files"},
}

// Role is a named capability set
type Role struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Capabilities []string           `json:"capabilities" bson:"capabilities"`
	IsSystem     bool               `json:"is_system" bson:"is_system"` // Prevent deletion/edit of built-in roles
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// SuperAdminRole grants everything; seeded at startup and locked
const SuperAdminRole = "super_admin"

func validCapability(key string) bool {
	for _, c := range Capabilities {
		if c.Key == key {
			return true
		}
	}
	return false
}

package automation

import (
	"time"

	common_models "go-hrms/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Events services dispatch after a successful mutation
const (
	EventEmployeeCreated         = "employee.created"
	EventOnboardingApproved      = "onboarding.approved"
	EventInfrastructureCompleted = "infrastructure.completed"
	EventLeaveApproved           = "leave.approved"
)

type ActionType string

const (
	ActionSendNotification ActionType = "send_notification"
	ActionWebhook          ActionType = "webhook"
	ActionRunScript        ActionType = "run_script"
)

// RuleAction is a single action executed when a rule fires
type RuleAction struct {
	ID     string                 `bson:"id" json:"id"` // uuid, assigned at creation
	Type   ActionType             `bson:"type" json:"type"`
	Config map[string]interface{} `bson:"config" json:"config"`
}

// Rule fires its actions when its event occurs and all criteria match the record
type Rule struct {
	ID        primitive.ObjectID            `bson:"_id,omitempty" json:"id"`
	Name      string                        `bson:"name" json:"name"`
	Event     string                        `bson:"event" json:"event"`
	Active    bool                          `bson:"active" json:"active"`
	Criteria  []common_models.RuleCondition `bson:"criteria" json:"criteria"`
	Actions   []RuleAction                  `bson:"actions" json:"actions"`
	CreatedAt time.Time                     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time                     `bson:"updated_at" json:"updated_at"`
}

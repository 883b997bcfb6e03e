package infrastructure

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
)

// statusRank orders the lifecycle; transitions only move to a higher rank.
var statusRank = map[RequestStatus]int{
	StatusPending:    0,
	StatusAssigned:   1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// CanTransition reports whether from → to is a single forward step.
func CanTransition(from, to RequestStatus) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr == fr+1
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type SetupStep string

const (
	StepLaptop    SetupStep = "laptop"
	StepEmail     SetupStep = "email"
	StepWifi      SetupStep = "wifi"
	StepIDCard    SetupStep = "id_card"
	StepBiometric SetupStep = "biometric"
)

// StepOrder is the fixed execution order. It is not configurable.
var StepOrder = []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard, StepBiometric}

type stepPolicy struct {
	Label        string
	RequiresNote bool
	NoteLabel    string
}

var stepPolicies = map[SetupStep]stepPolicy{
	StepLaptop:    {Label: "Laptop Setup", RequiresNote: true, NoteLabel: "serial number"},
	StepEmail:     {Label: "Email Setup", RequiresNote: true, NoteLabel: "email address"},
	StepWifi:      {Label: "WiFi Setup"},
	StepIDCard:    {Label: "ID Card", RequiresNote: true, NoteLabel: "card number"},
	StepBiometric: {Label: "Biometric"},
}

func ValidStep(s SetupStep) bool {
	_, ok := stepPolicies[s]
	return ok
}

func StepRequiresNote(s SetupStep) bool {
	return stepPolicies[s].RequiresNote
}

func StepLabel(s SetupStep) string {
	return stepPolicies[s].Label
}

func StepNoteLabel(s SetupStep) string {
	return stepPolicies[s].NoteLabel
}

// StepRecord is the per-step completion evidence.
type StepRecord struct {
	Completed   bool                `bson:"completed" json:"completed"`
	PhotoURL    string              `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Note        string              `bson:"note,omitempty" json:"note,omitempty"`
	CompletedBy *primitive.ObjectID `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	CompletedAt *time.Time          `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

type ProvisioningRequest struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	TicketNumber string                   `bson:"ticket_number" json:"ticket_number"`
	EmployeeID   primitive.ObjectID       `bson:"employee_id" json:"employee_id"`
	EmployeeName string                   `bson:"employee_name" json:"employee_name"`
	Status       RequestStatus            `bson:"status" json:"status"`
	Priority     Priority                 `bson:"priority" json:"priority"`
	Progress     int                      `bson:"progress" json:"progress"`
	Steps        map[SetupStep]StepRecord `bson:"steps" json:"steps"`
	AssignedTo   *primitive.ObjectID      `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	AssignedAt   *time.Time               `bson:"assigned_at,omitempty" json:"assigned_at,omitempty"`
	StartedAt    *time.Time               `bson:"started_at,omitempty" json:"started_at,omitempty"`

	CompletionNotes    string     `bson:"completion_notes,omitempty" json:"completion_notes,omitempty"`
	CompletionPhotoURL string     `bson:"completion_photo_url,omitempty" json:"completion_photo_url,omitempty"`
	HandoverPhotoURL   string     `bson:"handover_photo_url,omitempty" json:"handover_photo_url,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewStepMap returns the five steps, all incomplete.
func NewStepMap() map[SetupStep]StepRecord {
	steps := make(map[SetupStep]StepRecord, len(StepOrder))
	for _, s := range StepOrder {
		steps[s] = StepRecord{}
	}
	return steps
}

// ComputeProgress derives the percentage from completed steps. 100 is
// reached exactly when every step is completed.
func ComputeProgress(steps map[SetupStep]StepRecord) int {
	if len(StepOrder) == 0 {
		return 0
	}
	done := 0
	for _, s := range StepOrder {
		if steps[s].Completed {
			done++
		}
	}
	return done * 100 / len(StepOrder)
}

// NextIncompleteStep returns the first incomplete step in order, and false
// when every step is done.
func NextIncompleteStep(steps map[SetupStep]StepRecord) (SetupStep, bool) {
	for _, s := range StepOrder {
		if !steps[s].Completed {
			return s, true
		}
	}
	return "", false
}

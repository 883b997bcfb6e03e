package leave

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaveType string

const (
	LeaveAnnual   LeaveType = "annual"
	LeaveSick     LeaveType = "sick"
	LeaveUnpaid   LeaveType = "unpaid"
	LeaveParental LeaveType = "parental"
)

// Annual entitlements in working days. Unpaid leave is uncapped.
var entitlements = map[LeaveType]int{
	LeaveAnnual:   24,
	LeaveSick:     12,
	LeaveParental: 90,
}

func ValidLeaveType(t LeaveType) bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveUnpaid, LeaveParental:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
	LeaveCanceled LeaveStatus = "canceled"
)

type LeaveRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	Type       LeaveType          `bson:"type" json:"type"`
	StartDate  time.Time          `bson:"start_date" json:"start_date"`
	EndDate    time.Time          `bson:"end_date" json:"end_date"`
	Days       int                `bson:"days" json:"days"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Status     LeaveStatus        `bson:"status" json:"status"`

	ReviewedBy *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewNote string              `bson:"review_note,omitempty" json:"review_note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BalanceEntry summarizes one leave type for an employee and year.
type BalanceEntry struct {
	Type        LeaveType `json:"type"`
	Entitled    int       `json:"entitled"`
	Used        int       `json:"used"`
	Remaining   int       `json:"remaining"`
	Uncapped    bool      `json:"uncapped,omitempty"`
	PendingDays int       `json:"pending_days"`
}

// WorkingDays counts days between start and end inclusive, skipping weekends.
func WorkingDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

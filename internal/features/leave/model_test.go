package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"single weekday", date(2026, time.August, 24), date(2026, time.August, 24), 1}, // Monday
		{"full work week", date(2026, time.August, 24), date(2026, time.August, 28), 5},
		{"week including weekend", date(2026, time.August, 24), date(2026, time.August, 30), 5},
		{"weekend only", date(2026, time.August, 29), date(2026, time.August, 30), 0},
		{"two weeks", date(2026, time.August, 24), date(2026, time.September, 4), 10},
		{"end before start", date(2026, time.August, 28), date(2026, time.August, 24), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkingDays(tt.start, tt.end); got != tt.want {
				t.Errorf("WorkingDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidLeaveType(t *testing.T) {
	for _, valid := range []LeaveType{LeaveAnnual, LeaveSick, LeaveUnpaid, LeaveParental} {
		if !ValidLeaveType(valid) {
			t.Errorf("ValidLeaveType(%s) = false", valid)
		}
	}
	if ValidLeaveType("sabbatical") {
		t.Error("ValidLeaveType accepted an unknown type")
	}
}

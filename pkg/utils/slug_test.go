package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Office Closed on Friday", "office-closed-on-friday"},
		{"  Q3 / Payroll -- Update!  ", "q3-payroll-update"},
		{"2026 Holiday Calendar", "2026-holiday-calendar"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

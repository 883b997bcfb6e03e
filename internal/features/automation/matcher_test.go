package automation

import (
	"testing"

	common_models "go-hrms/internal/common/models"
)

func TestMatchesCriteria(t *testing.T) {
	record := map[string]interface{}{
		"department": "Engineering",
		"priority":   "urgent",
		"days":       5,
		"email":      "jane.doe@company.com",
	}

	tests := []struct {
		name     string
		criteria []common_models.RuleCondition
		want     bool
	}{
		{"no criteria matches everything", nil, true},
		{
			"eq match",
			[]common_models.RuleCondition{{Field: "priority", Operator: "eq", Value: "urgent"}},
			true,
		},
		{
			"empty operator defaults to eq",
			[]common_models.RuleCondition{{Field: "priority", Value: "urgent"}},
			true,
		},
		{
			"eq mismatch",
			[]common_models.RuleCondition{{Field: "priority", Operator: "eq", Value: "normal"}},
			false,
		},
		{
			"neq",
			[]common_models.RuleCondition{{Field: "priority", Operator: "neq", Value: "normal"}},
			true,
		},
		{
			"contains is case insensitive",
			[]common_models.RuleCondition{{Field: "email", Operator: "contains", Value: "COMPANY.COM"}},
			true,
		},
		{
			"gt on numeric field",
			[]common_models.RuleCondition{{Field: "days", Operator: "gt", Value: 3}},
			true,
		},
		{
			"lt fails when equal",
			[]common_models.RuleCondition{{Field: "days", Operator: "lt", Value: 5}},
			false,
		},
		{
			"missing field never matches",
			[]common_models.RuleCondition{{Field: "absent", Operator: "eq", Value: "x"}},
			false,
		},
		{
			"all criteria must hold",
			[]common_models.RuleCondition{
				{Field: "department", Operator: "eq", Value: "Engineering"},
				{Field: "priority", Operator: "eq", Value: "normal"},
			},
			false,
		},
		{
			"unknown operator never matches",
			[]common_models.RuleCondition{{Field: "priority", Operator: "regex", Value: ".*"}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesCriteria(tt.criteria, record); got != tt.want {
				t.Errorf("MatchesCriteria() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	record := map[string]interface{}{"employee_name": "Jane Doe", "ticket_number": "INF-000042"}

	got := renderTemplate("Setup {ticket_number} for {employee_name} is done", record)
	want := "Setup INF-000042 for Jane Doe is done"
	if got != want {
		t.Errorf("renderTemplate() = %q, want %q", got, want)
	}
}

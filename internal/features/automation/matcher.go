package automation

import (
	"fmt"
	"strings"

	common_models "go-hrms/internal/common/models"
)

// MatchesCriteria reports whether every condition holds for the record.
// A rule with no criteria matches every record of its event.
func MatchesCriteria(criteria []common_models.RuleCondition, record map[string]interface{}) bool {
	for _, cond := range criteria {
		if !matchCondition(cond, record) {
			return false
		}
	}
	return true
}

func matchCondition(cond common_models.RuleCondition, record map[string]interface{}) bool {
	raw, ok := record[cond.Field]
	if !ok {
		return false
	}

	got := fmt.Sprintf("%v", raw)
	want := fmt.Sprintf("%v", cond.Value)

	switch cond.Operator {
	case "eq", "":
		return got == want
	case "neq":
		return got != want
	case "contains":
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case "gt", "lt":
		var gf, wf float64
		if _, err := fmt.Sscanf(got, "%f", &gf); err != nil {
			return false
		}
		if _, err := fmt.Sscanf(want, "%f", &wf); err != nil {
			return false
		}
		if cond.Operator == "gt" {
			return gf > wf
		}
		return gf < wf
	default:
		return false
	}
}

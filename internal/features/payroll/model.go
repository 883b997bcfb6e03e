package payroll

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payslip struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID   primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeCode string             `bson:"employee_code" json:"employee_code"`
	Period       string             `bson:"period" json:"period"` // YYYY-MM
	GrossPay     float64            `bson:"gross_pay" json:"gross_pay"`
	Deductions   float64            `bson:"deductions" json:"deductions"`
	NetPay       float64            `bson:"net_pay" json:"net_pay"`
	Currency     string             `bson:"currency" json:"currency"`
	ImportedAt   time.Time          `bson:"imported_at" json:"imported_at"`
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func ValidPeriod(period string) bool {
	return periodPattern.MatchString(period)
}

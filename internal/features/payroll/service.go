package payroll

import (
	"context"
	"errors"
	"fmt"

	common_models "go-hrms/internal/common/models"
	"go-hrms/internal/connectors"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/employee"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrPayslipNotFound = errors.New("payslip not found")
	ErrInvalidPeriod   = errors.New("period must be formatted YYYY-MM")
	ErrNothingToExport = errors.New("no payslips recorded for this period")
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Period   string   `json:"period"`
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"` // employee codes with no matching record
}

type PayrollService interface {
	// ImportPeriod pulls the period's payslips from the external payroll
	// source and upserts them against our employee records.
	ImportPeriod(ctx context.Context, period string) (*ImportResult, error)

	GetPayslip(ctx context.Context, id primitive.ObjectID) (*Payslip, error)
	ListForEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]Payslip, int64, error)

	// ExportPeriod renders the period's payslips as an XLSX workbook.
	ExportPeriod(ctx context.Context, period string) ([]byte, error)
}

type PayrollServiceImpl struct {
	repo      PayrollRepository
	source    connectors.PayrollSource
	employees employee.EmployeeRepository
	audit     audit.AuditService
	log       *zap.Logger
}

func NewPayrollService(repo PayrollRepository, source connectors.PayrollSource, employees employee.EmployeeRepository, auditSvc audit.AuditService, log *zap.Logger) PayrollService {
	return &PayrollServiceImpl{
		repo:      repo,
		source:    source,
		employees: employees,
		audit:     auditSvc,
		log:       log,
	}
}

func (s *PayrollServiceImpl) ImportPeriod(ctx context.Context, period string) (*ImportResult, error) {
	if !ValidPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	rows, err := s.source.FetchPayslips(ctx, period)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Period: period}
	for _, row := range rows {
		emp, err := s.employees.FindByCode(ctx, row.EmployeeCode)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				result.Skipped = append(result.Skipped, row.EmployeeCode)
				continue
			}
			return nil, err
		}

		slip := &Payslip{
			EmployeeID:   emp.ID,
			EmployeeCode: row.EmployeeCode,
			Period:       row.Period,
			GrossPay:     row.GrossPay,
			Deductions:   row.Deductions,
			NetPay:       row.NetPay,
			Currency:     row.Currency,
		}
		if err := s.repo.Upsert(ctx, slip); err != nil {
			return nil, err
		}
		result.Imported++
	}

	if len(result.Skipped) > 0 {
		s.log.Warn("payroll import skipped unknown employee codes",
			zap.String("period", period),
			zap.Strings("codes", result.Skipped))
	}

	s.audit.LogChange(ctx, common_models.AuditActionImport, "payroll", period, map[string]common_models.Change{
		"imported": {New: fmt.Sprintf("%d", result.Imported)},
		"skipped":  {New: fmt.Sprintf("%d", len(result.Skipped))},
	})

	return result, nil
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id primitive.ObjectID) (*Payslip, error) {
	slip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPayslipNotFound
		}
		return nil, err
	}
	return slip, nil
}

func (s *PayrollServiceImpl) ListForEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]Payslip, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	return s.repo.FindByEmployee(ctx, employeeID, page, limit)
}

func (s *PayrollServiceImpl) ExportPeriod(ctx context.Context, period string) ([]byte, error) {
	if !ValidPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	slips, err := s.repo.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if len(slips) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payslips"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Employee Code", "Period", "Gross Pay", "Deductions", "Net Pay", "Currency"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, slip := range slips {
		row := i + 2
		values := []interface{}{slip.EmployeeCode, slip.Period, slip.GrossPay, slip.Deductions, slip.NetPay, slip.Currency}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

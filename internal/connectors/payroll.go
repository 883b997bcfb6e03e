// Package connectors pulls payroll figures from the external payroll
// database. Finance runs either Postgres or MySQL depending on the site, so
// both drivers are registered and the DSN is built from configuration.
package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-hrms/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PayslipRow is one row from the external payroll system, keyed by the
// employee's code rather than our internal IDs.
type PayslipRow struct {
	EmployeeCode string
	Period       string
	GrossPay     float64
	Deductions   float64
	NetPay       float64
	Currency     string
}

type PayrollSource interface {
	FetchPayslips(ctx context.Context, period string) ([]PayslipRow, error)
}

type SQLPayrollSource struct {
	db     *sql.DB
	driver string
	log    *zap.Logger
}

func NewPayrollSource(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (PayrollSource, error) {
	driver, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening payroll source: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return &SQLPayrollSource{db: db, driver: driver, log: log}, nil
}

func buildDSN(cfg *config.Config) (driver, dsn string, err error) {
	switch cfg.PayrollDBType {
	case "postgres", "postgresql":
		return "postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.PayrollDBHost, cfg.PayrollDBPort, cfg.PayrollDBUser, cfg.PayrollDBPass, cfg.PayrollDBName), nil
	case "mysql":
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			cfg.PayrollDBUser, cfg.PayrollDBPass, cfg.PayrollDBHost, cfg.PayrollDBPort, cfg.PayrollDBName), nil
	default:
		return "", "", fmt.Errorf("unsupported payroll database type %q", cfg.PayrollDBType)
	}
}

func (s *SQLPayrollSource) FetchPayslips(ctx context.Context, period string) ([]PayslipRow, error) {
	query := `SELECT employee_code, period, gross_pay, deductions, net_pay, currency
		FROM payslips WHERE period = $1`
	if s.driver == "mysql" {
		query = `SELECT employee_code, period, gross_pay, deductions, net_pay, currency
		FROM payslips WHERE period = ?`
	}

	rows, err := s.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("querying payslips for %s: %w", period, err)
	}
	defer rows.Close()

	var slips []PayslipRow
	for rows.Next() {
		var row PayslipRow
		if err := rows.Scan(&row.EmployeeCode, &row.Period, &row.GrossPay, &row.Deductions, &row.NetPay, &row.Currency); err != nil {
			return nil, err
		}
		slips = append(slips, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.log.Info("fetched payslips from payroll source",
		zap.String("period", period),
		zap.Int("count", len(slips)))
	return slips, nil
}

package connectors

import (
	"os"
	"strings"
	"testing"

	"go-hrms/internal/config"
)

func TestBuildDSN(t *testing.T) {
	base := config.Config{
		PayrollDBHost: "hris.internal",
		PayrollDBPort: "5432",
		PayrollDBName: "legacy_hris",
		PayrollDBUser: "hris",
		PayrollDBPass: "secret",
	}

	tests := []struct {
		dbType     string
		wantDriver string
		wantInDSN  string
		wantErr    bool
	}{
		{"postgres", "postgres", "host=hris.internal", false},
		{"postgresql", "postgres", "dbname=legacy_hris", false},
		{"mysql", "mysql", "tcp(hris.internal:5432)", false},
		{"oracle", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run("type "+tt.dbType, func(t *testing.T) {
			cfg := base
			cfg.PayrollDBType = tt.dbType

			driver, dsn, err := buildDSN(&cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("buildDSN(%q): expected error, got driver %q", tt.dbType, driver)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildDSN(%q): %v", tt.dbType, err)
			}
			if driver != tt.wantDriver {
				t.Errorf("driver = %q, want %q", driver, tt.wantDriver)
			}
			if !strings.Contains(dsn, tt.wantInDSN) {
				t.Errorf("dsn = %q, want it to contain %q", dsn, tt.wantInDSN)
			}
		})
	}
}

// The out-of-the-box config must produce a usable payroll source, since the
// connector sits in the server's startup path.
func TestBuildDSNAcceptsDefaultConfig(t *testing.T) {
	t.Setenv("PAYROLL_DB_TYPE", "x")
	os.Unsetenv("PAYROLL_DB_TYPE")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PayrollDBType == "" {
		t.Fatal("no default payroll database type")
	}

	driver, _, err := buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN with default config: %v", err)
	}
	if driver != "postgres" {
		t.Errorf("default driver = %q, want postgres", driver)
	}
}

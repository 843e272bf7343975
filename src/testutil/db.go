// Package testutil connects integration tests to the TESTING database.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mfportal/src/config"
	"mfportal/src/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

var (
	once    sync.Once
	testDB  *pgxpool.Pool
	testORM *gorm.DB
	initErr error
)

// Tables in truncation order.
var tables = []string{
	"portfolio_snapshots",
	"mf_transactions",
	"portfolios",
	"bank_accounts",
	"mutual_fund_schemes",
	"users",
}

// SetupTestDB returns the migrated, empty TESTING database. Tests are skipped
// when it cannot be reached.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, *gorm.DB) {
	t.Helper()

	once.Do(func() {
		initErr = connect()
	})
	if initErr != nil {
		t.Skipf("test database unavailable: %v", initErr)
	}

	TruncateTables(t, testDB)
	return testDB, testORM
}

func connect() error {
	cfg, err := LoadTestConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return err
	}

	orm, err := database.SetupGorm(cfg)
	if err != nil {
		pool.Close()
		return err
	}
	sqlDB, err := orm.DB()
	if err != nil {
		pool.Close()
		return err
	}
	if err := database.Migrate(sqlDB); err != nil {
		pool.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	testDB, testORM = pool, orm
	return nil
}

// LoadTestConfig loads settings/appsettings.TESTING.yaml from the module root.
func LoadTestConfig() (*config.Config, error) {
	serviceRoot, err := getServiceRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get service root path: %w", err)
	}

	cfg, err := config.LoadConfig(filepath.Join(serviceRoot, "settings"), "TESTING")
	if err != nil {
		return nil, fmt.Errorf("failed to load test configuration: %w", err)
	}
	return cfg, nil
}

// getServiceRoot walks up from the working directory to the one holding go.mod.
func getServiceRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}

		parent := filepath.Dir(wd)
		if parent == wd {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		wd = parent
	}
}

func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	for _, table := range tables {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}
}

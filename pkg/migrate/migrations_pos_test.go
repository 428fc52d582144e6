package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jewelstack/jewelpos-backend/pkg/migrate"
)

func TestPOSMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_pos_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no pos migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS customers",
		"CREATE TABLE IF NOT EXISTS bills",
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_product_id",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_bills_bill_no",
		"CREATE INDEX IF NOT EXISTS idx_bills_created_at",
		"CHECK (quantity >= 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration validation failed: %v", err)
	}
}

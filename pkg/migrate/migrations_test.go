package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/velvetrow/velvetrow-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestProductsMigrationContainsStockGuards(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (stock_qty >= 0)",
		"in_stock BOOLEAN NOT NULL DEFAULT FALSE",
		"CREATE INDEX IF NOT EXISTS idx_products_name",
		"DROP TABLE IF EXISTS products",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationEnforcesLineIdentity(t *testing.T) {
	content := readMigration(t, "*_create_cart_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_records",
		"CREATE TABLE IF NOT EXISTS cart_items",
		"ON cart_items (cart_id, product_id, size, color)",
		"CHECK (quantity >= 1)",
		"FOREIGN KEY (cart_id) REFERENCES cart_records(id) ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationKeepsPaymentReference(t *testing.T) {
	content := readMigration(t, "*_create_order_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_reference",
		"payment_reference TEXT NOT NULL",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

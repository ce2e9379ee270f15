package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Tests are skipped when
// no MySQL instance named 'storefront_test' is reachable on localhost:3306.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/storefront_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB truncates the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_lines", "orders", "cart_items", "products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		discount DECIMAL(10,2) NOT NULL DEFAULT 0,
		quantity INT NOT NULL,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CHECK (quantity >= 0)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		userId CHAR(36) NOT NULL,
		orderDate DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		totalAmount DECIMAL(12,2) NOT NULL,
		status VARCHAR(32) NOT NULL,
		paymentStatus VARCHAR(32) NOT NULL,
		INDEX idx_user (userId),
		INDEX idx_status (status)
	)`

	createOrderLinesTable := `
	CREATE TABLE IF NOT EXISTS order_lines (
		id CHAR(36) NOT NULL PRIMARY KEY,
		orderId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		originalPrice DECIMAL(10,2) NOT NULL,
		discount DECIMAL(10,2) NOT NULL DEFAULT 0,
		FOREIGN KEY (orderId) REFERENCES orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	createCartItemsTable := `
	CREATE TABLE IF NOT EXISTS cart_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		userId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_user_product (userId, productId),
		INDEX idx_user (userId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"products", createProductsTable},
		{"orders", createOrdersTable},
		{"order_lines", createOrderLinesTable},
		{"cart_items", createCartItemsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}

// InsertTestProduct seeds one product row and returns its id.
func InsertTestProduct(t *testing.T, db *sql.DB, id, name string, price float64, quantity int) {
	_, err := db.Exec(`
		INSERT INTO products (id, name, description, price, discount, quantity, isActive)
		VALUES (?, ?, '', ?, 0, ?, 1)
	`, id, name, price, quantity)
	if err != nil {
		t.Fatalf("failed to insert test product: %v", err)
	}
}

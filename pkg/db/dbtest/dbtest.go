// Package dbtest opens throwaway sqlite databases carrying the shop schema.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE clients (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  car_model TEXT,
  car_year INTEGER,
  license_plate TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE employees (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  position TEXT NOT NULL,
  salary NUMERIC NOT NULL,
  phone TEXT,
  email TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE services (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  duration_minutes INTEGER,
  category TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE part_categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE parts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  category_id INTEGER REFERENCES part_categories(id) ON DELETE SET NULL,
  part_number TEXT,
  manufacturer TEXT,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  min_quantity INTEGER NOT NULL DEFAULT 5,
  location TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE service_orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  client_id INTEGER NOT NULL REFERENCES clients(id),
  employee_id INTEGER NOT NULL REFERENCES employees(id),
  vehicle_info TEXT,
  problem_description TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  completed_at DATETIME
);`,
	`CREATE TABLE order_services (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES service_orders(id) ON DELETE CASCADE,
  service_id INTEGER NOT NULL REFERENCES services(id),
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`,
	`CREATE TABLE order_parts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES service_orders(id) ON DELETE CASCADE,
  part_id INTEGER NOT NULL REFERENCES parts(id),
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL
);`,
	`CREATE TABLE financial_operations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
  amount NUMERIC NOT NULL CHECK (amount >= 0),
  description TEXT,
  category TEXT,
  related_order_id INTEGER REFERENCES service_orders(id) ON DELETE SET NULL,
  operation_date DATE NOT NULL,
  created_at DATETIME
);`,
}

// New returns an isolated in-memory database with foreign keys enforced.
// A single connection keeps sqlite's shared cache free of table locks
// between a transaction and reads issued after it commits.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:autoshop_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}

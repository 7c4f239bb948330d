package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	allModels := append(models.AllModels(), &IDSequence{})

	log.Println("Creating tables...")
	migrator := db.Migrator()
	for _, model := range allModels {
		tableName := ""
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if !migrator.HasTable(model) {
			if err := migrator.CreateTable(model); err != nil {
				return fmt.Errorf("create table %s: %w", tableName, err)
			}
			log.Printf("  ✓ Created table: %s", tableName)
		} else {
			if err := migrator.AutoMigrate(model); err != nil {
				return fmt.Errorf("migrate table %s: %w", tableName, err)
			}
			log.Printf("  ✓ Table already exists: %s", tableName)
		}
	}

	log.Println("Creating foreign key constraints...")
	if err := CreateForeignKeys(db); err != nil {
		log.Printf("Warning: Some foreign keys could not be created: %v", err)
	}

	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CreateForeignKeys creates all foreign key constraints. References from
// cargo are deletion-protected: a supplier, warehouse or category still
// referenced by cargo cannot be deleted. History and alert rows follow
// their cargo.
func CreateForeignKeys(db *gorm.DB) error {
	foreignKeys := []struct {
		table     string
		name      string
		column    string
		refTable  string
		refColumn string
		onDelete  string
	}{
		// Location lookups
		{"suppliers", "fk_suppliers_county", "county_id", "counties", "county_id", "RESTRICT"},
		{"warehouses", "fk_warehouses_county", "county_id", "counties", "county_id", "RESTRICT"},

		// Cargo protected references
		{"cargos", "fk_cargos_supplier", "supplier_id", "suppliers", "supplier_id", "RESTRICT"},
		{"cargos", "fk_cargos_warehouse", "warehouse_id", "warehouses", "warehouse_id", "RESTRICT"},
		{"cargos", "fk_cargos_category", "category_id", "cargo_categories", "category_id", "RESTRICT"},

		// Audit trail
		{"cargo_status_history", "fk_status_history_cargo", "cargo_id", "cargos", "cargo_id", "CASCADE"},

		// Derived metrics
		{"supplier_performance", "fk_performance_supplier", "supplier_id", "suppliers", "supplier_id", "CASCADE"},

		// Alert references
		{"alerts", "fk_alerts_cargo", "cargo_id", "cargos", "cargo_id", "CASCADE"},
		{"alerts", "fk_alerts_supplier", "supplier_id", "suppliers", "supplier_id", "CASCADE"},
		{"alerts", "fk_alerts_warehouse", "warehouse_id", "warehouses", "warehouse_id", "CASCADE"},
	}

	for _, fk := range foreignKeys {
		var count int64
		db.Raw(`
			SELECT COUNT(*) FROM information_schema.table_constraints
			WHERE constraint_type = 'FOREIGN KEY'
			AND table_name = ?
			AND constraint_name = ?
		`, fk.table, fk.name).Scan(&count)

		if count > 0 {
			log.Printf("  ✓ Foreign key already exists: %s", fk.name)
			continue
		}

		query := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s",
			fk.table, fk.name, fk.column, fk.refTable, fk.refColumn, fk.onDelete,
		)
		if err := db.Exec(query).Error; err != nil {
			log.Printf("  ⚠ Failed to create foreign key %s: %v", fk.name, err)
		} else {
			log.Printf("  ✓ Created foreign key: %s", fk.name)
		}
	}

	return nil
}

// CreateIndexes creates performance indexes
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Cargo lookups
		{"idx_cargos_status_warehouse", "CREATE INDEX IF NOT EXISTS idx_cargos_status_warehouse ON cargos(status, warehouse_id)"},
		{"idx_cargos_supplier_status", "CREATE INDEX IF NOT EXISTS idx_cargos_supplier_status ON cargos(supplier_id, status)"},
		{"idx_cargos_dispatch_expected", "CREATE INDEX IF NOT EXISTS idx_cargos_dispatch_expected ON cargos(dispatch_date, expected_arrival_date)"},

		// Status history
		{"idx_status_history_cargo_created", "CREATE INDEX IF NOT EXISTS idx_status_history_cargo_created ON cargo_status_history(cargo_id, created_at)"},

		// Alerts
		{"idx_alerts_read_severity", "CREATE INDEX IF NOT EXISTS idx_alerts_read_severity ON alerts(is_read, severity)"},
		{"idx_alerts_type_created", "CREATE INDEX IF NOT EXISTS idx_alerts_type_created ON alerts(alert_type, created_at)"},

		// Reports
		{"idx_reports_type_created", "CREATE INDEX IF NOT EXISTS idx_reports_type_created ON reports(report_type, created_at)"},

		// Suppliers
		{"idx_suppliers_status_type", "CREATE INDEX IF NOT EXISTS idx_suppliers_status_type ON suppliers(status, supplier_type)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				log.Printf("  ⚠ Failed to create index %s: %v", idx.name, err)
			}
		} else {
			log.Printf("  ✓ Created index: %s", idx.name)
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}

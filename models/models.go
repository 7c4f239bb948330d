package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&County{},
		&CargoCategory{},

		// 2. Tables depending on County
		&Supplier{},
		&Warehouse{},

		// 3. Cargo depends on Supplier, Warehouse, CargoCategory
		&Cargo{},

		// 4. Tables depending on Cargo and the rest
		&CargoStatusHistory{},
		&SupplierPerformance{},
		&Alert{},
		&Report{},
	}
}

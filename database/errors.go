package database

import "errors"

// Validation errors surfaced to callers. Not-found conditions are reported
// as gorm.ErrRecordNotFound.
var (
	// ErrMalformedSequence means the greatest existing business id for a
	// period has a non-numeric suffix. The creating operation must abort
	// rather than silently restart the counter and risk a duplicate id.
	ErrMalformedSequence = errors.New("malformed id sequence suffix")

	ErrSupplierInUse  = errors.New("supplier is referenced by cargo and cannot be deleted")
	ErrWarehouseInUse = errors.New("warehouse is referenced by cargo and cannot be deleted")
	ErrCategoryInUse  = errors.New("cargo category is referenced by cargo and cannot be deleted")
	ErrCountyInUse    = errors.New("county is referenced by suppliers or warehouses and cannot be deleted")
)

package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

// Typed payloads stored in reports.report_data. Each generator marshals one
// of these; the report row's type says which struct to unmarshal.

// SupplierRanking is one supplier row within the performance report
type SupplierRanking struct {
	SupplierID              uint    `json:"supplier_id"`
	SupplierCode            string  `json:"supplier_code"`
	SupplierName            string  `json:"supplier_name"`
	OverallPerformanceScore float64 `json:"overall_performance_score"`
	OnTimeDeliveryRate      float64 `json:"on_time_delivery_rate"`
	TotalDeliveries         int     `json:"total_deliveries"`
	OnTimeDeliveries        int     `json:"on_time_deliveries"`
	DelayedDeliveries       int     `json:"delayed_deliveries"`
}

// SupplierPerformanceReport ranks suppliers by their computed score
type SupplierPerformanceReport struct {
	GeneratedAt      time.Time         `json:"generated_at"`
	TotalSuppliers   int64             `json:"total_suppliers"`
	ActiveSuppliers  int64             `json:"active_suppliers"`
	TopPerformers    []SupplierRanking `json:"top_performers"`
	BottomPerformers []SupplierRanking `json:"bottom_performers"`
	Statistics       struct {
		AvgPerformanceScore float64 `json:"avg_performance_score"`
		TotalDeliveries     int64   `json:"total_deliveries"`
		OnTimeDeliveries    int64   `json:"on_time_deliveries"`
		DelayedDeliveries   int64   `json:"delayed_deliveries"`
	} `json:"statistics"`
}

// StatusBreakdown is cargo volume grouped by one status
type StatusBreakdown struct {
	Status      models.CargoStatus `json:"status"`
	Count       int64              `json:"count"`
	TotalValue  float64            `json:"total_value"`
	TotalWeight float64            `json:"total_weight_kg"`
}

// WarehouseBreakdown is cargo volume grouped by destination warehouse
type WarehouseBreakdown struct {
	WarehouseID   uint    `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	Count         int64   `json:"count"`
	TotalWeight   float64 `json:"total_weight_kg"`
}

// CategoryBreakdown is cargo volume grouped by category
type CategoryBreakdown struct {
	CategoryName string `json:"category_name"`
	CategoryCode string `json:"category_code"`
	Count        int64  `json:"count"`
}

// RecentShipment is one row of the latest-dispatches listing
type RecentShipment struct {
	CargoCode           string             `json:"cargo_code"`
	Status              models.CargoStatus `json:"status"`
	SupplierName        string             `json:"supplier_name"`
	WarehouseName       string             `json:"warehouse_name"`
	DispatchDate        time.Time          `json:"dispatch_date"`
	ExpectedArrivalDate time.Time          `json:"expected_arrival_date"`
}

// CargoMovementReport summarizes shipment volume across the fleet
type CargoMovementReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Summary     struct {
		TotalCargos   int64   `json:"total_cargos"`
		InTransit     int64   `json:"in_transit"`
		Delivered     int64   `json:"delivered"`
		Delayed       int64   `json:"delayed"`
		Cancelled     int64   `json:"cancelled"`
		Damaged       int64   `json:"damaged"`
		TotalWeightKg float64 `json:"total_weight_kg"`
		TotalValueKes float64 `json:"total_value_kes"`
	} `json:"summary"`
	ByStatus        []StatusBreakdown    `json:"by_status"`
	ByWarehouse     []WarehouseBreakdown `json:"by_warehouse"`
	ByCategory      []CategoryBreakdown  `json:"by_category"`
	RecentShipments []RecentShipment     `json:"recent_shipments"`
}

// SupplierDeliveryStats is per-supplier delivery counts within the delivery
// analysis report
type SupplierDeliveryStats struct {
	SupplierID   uint   `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Total        int64  `json:"total"`
	Delayed      int64  `json:"delayed"`
	OnTime       int64  `json:"on_time"`
}

// TransportModeStats is delivery timing grouped by transport mode
type TransportModeStats struct {
	TransportMode models.TransportMode `json:"transport_mode"`
	Count         int64                `json:"count"`
	AvgTimeHours  float64              `json:"avg_time_hours"`
	Delayed       int64                `json:"delayed"`
}

// DeliveryAnalysisReport breaks down delivery timing and punctuality
type DeliveryAnalysisReport struct {
	GeneratedAt              time.Time               `json:"generated_at"`
	OnTimeDeliveries         int64                   `json:"on_time_deliveries"`
	DelayedDeliveries        int64                   `json:"delayed_deliveries"`
	AverageDeliveryTimeHours float64                 `json:"average_delivery_time_hours"`
	FastestDeliveryHours     float64                 `json:"fastest_delivery_hours"`
	SlowestDeliveryHours     float64                 `json:"slowest_delivery_hours"`
	BySupplier               []SupplierDeliveryStats `json:"by_supplier"`
	ByTransportMode          []TransportModeStats    `json:"by_transport_mode"`
}

// WarehouseInventory is the stock picture of one warehouse
type WarehouseInventory struct {
	WarehouseID         uint    `json:"warehouse_id"`
	WarehouseCode       string  `json:"warehouse_code"`
	Name                string  `json:"name"`
	County              string  `json:"county"`
	CargoCount          int64   `json:"cargo_count"`
	TotalWeightKg       float64 `json:"total_weight_kg"`
	CapacityUtilization float64 `json:"capacity_utilization"`
}

// InventorySummaryReport snapshots what is currently held in warehouses.
// A cargo counts as held once it has arrived and has not left the
// lifecycle: ARRIVED, RECEIVED or STORED.
type InventorySummaryReport struct {
	GeneratedAt      time.Time            `json:"generated_at"`
	TotalWarehouses  int64                `json:"total_warehouses"`
	Warehouses       []WarehouseInventory `json:"warehouses"`
	Categories       []CategoryBreakdown  `json:"categories"`
	TotalStoredCargo int64                `json:"total_stored_cargo"`
}

// MonthlySummaryReport is the month-to-date operational overview
type MonthlySummaryReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Period      struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Month string `json:"month"`
	} `json:"period"`
	Cargos struct {
		Total         int64   `json:"total"`
		TotalValueKes float64 `json:"total_value_kes"`
		TotalWeightKg float64 `json:"total_weight_kg"`
	} `json:"cargos"`
	Suppliers struct {
		Active int64 `json:"active"`
		Total  int64 `json:"total"`
	} `json:"suppliers"`
	Warehouses struct {
		Active int64 `json:"active"`
		Total  int64 `json:"total"`
	} `json:"warehouses"`
	Alerts struct {
		Unresolved int64 `json:"unresolved"`
		Critical   int64 `json:"critical"`
	} `json:"alerts"`
	Performance struct {
		OnTimeRate float64 `json:"on_time_rate"`
	} `json:"performance"`
}

// heldStatuses are the statuses counted as physically in a warehouse
var heldStatuses = []models.CargoStatus{models.CargoArrived, models.CargoReceived, models.CargoStored}

// GenerateSupplierPerformanceReport ranks suppliers by overall score and
// saves the result as a report row
func GenerateSupplierPerformanceReport(db *gorm.DB, now time.Time, actor string) (*models.Report, error) {
	var payload SupplierPerformanceReport
	payload.GeneratedAt = now

	if err := db.Model(&models.SupplierPerformance{}).Count(&payload.TotalSuppliers).Error; err != nil {
		return nil, fmt.Errorf("count supplier performance rows: %w", err)
	}
	if err := db.Model(&models.Supplier{}).
		Where("status = ?", models.SupplierActive).
		Count(&payload.ActiveSuppliers).Error; err != nil {
		return nil, fmt.Errorf("count active suppliers: %w", err)
	}

	rankingQuery := func(order string, dest *[]SupplierRanking) error {
		return db.Model(&models.SupplierPerformance{}).
			Select(`supplier_performance.supplier_id,
				suppliers.supplier_code,
				suppliers.name AS supplier_name,
				supplier_performance.overall_performance_score,
				supplier_performance.on_time_delivery_rate,
				supplier_performance.total_deliveries,
				supplier_performance.on_time_deliveries,
				supplier_performance.delayed_deliveries`).
			Joins("JOIN suppliers ON suppliers.supplier_id = supplier_performance.supplier_id").
			Order(order).
			Limit(10).
			Scan(dest).Error
	}
	if err := rankingQuery("supplier_performance.overall_performance_score DESC", &payload.TopPerformers); err != nil {
		return nil, fmt.Errorf("rank top performers: %w", err)
	}
	if err := rankingQuery("supplier_performance.overall_performance_score ASC", &payload.BottomPerformers); err != nil {
		return nil, fmt.Errorf("rank bottom performers: %w", err)
	}

	if err := db.Model(&models.SupplierPerformance{}).
		Select(`COALESCE(AVG(overall_performance_score), 0) AS avg_performance_score,
			COALESCE(SUM(total_deliveries), 0) AS total_deliveries,
			COALESCE(SUM(on_time_deliveries), 0) AS on_time_deliveries,
			COALESCE(SUM(delayed_deliveries), 0) AS delayed_deliveries`).
		Scan(&payload.Statistics).Error; err != nil {
		return nil, fmt.Errorf("aggregate performance statistics: %w", err)
	}

	return saveReport(db, models.ReportSupplierPerformance,
		fmt.Sprintf("Supplier Performance Report - %s", now.Format("January 2006")),
		"Monthly supplier performance analysis",
		now, payload, actor)
}

// GenerateCargoMovementReport summarizes shipment volume by status, warehouse
// and category and saves the result as a report row
func GenerateCargoMovementReport(db *gorm.DB, now time.Time, actor string) (*models.Report, error) {
	var payload CargoMovementReport
	payload.GeneratedAt = now

	if err := db.Model(&models.Cargo{}).
		Select(`COUNT(*) AS total_cargos,
			COUNT(CASE WHEN status = 'IN_TRANSIT' THEN 1 END) AS in_transit,
			COUNT(CASE WHEN status = 'RECEIVED' THEN 1 END) AS delivered,
			COUNT(CASE WHEN is_delayed THEN 1 END) AS delayed,
			COUNT(CASE WHEN status = 'CANCELLED' THEN 1 END) AS cancelled,
			COUNT(CASE WHEN status = 'DAMAGED' THEN 1 END) AS damaged,
			COALESCE(SUM(weight_kg), 0) AS total_weight_kg,
			COALESCE(SUM(declared_value), 0) AS total_value_kes`).
		Scan(&payload.Summary).Error; err != nil {
		return nil, fmt.Errorf("aggregate cargo summary: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Select(`status,
			COUNT(*) AS count,
			COALESCE(SUM(declared_value), 0) AS total_value,
			COALESCE(SUM(weight_kg), 0) AS total_weight`).
		Group("status").
		Order("count DESC").
		Scan(&payload.ByStatus).Error; err != nil {
		return nil, fmt.Errorf("group cargo by status: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Select(`cargos.warehouse_id,
			warehouses.name AS warehouse_name,
			COUNT(*) AS count,
			COALESCE(SUM(cargos.weight_kg), 0) AS total_weight`).
		Joins("JOIN warehouses ON warehouses.warehouse_id = cargos.warehouse_id").
		Group("cargos.warehouse_id, warehouses.name").
		Order("count DESC").
		Limit(10).
		Scan(&payload.ByWarehouse).Error; err != nil {
		return nil, fmt.Errorf("group cargo by warehouse: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Select(`cargo_categories.name AS category_name,
			cargo_categories.code AS category_code,
			COUNT(*) AS count`).
		Joins("JOIN cargo_categories ON cargo_categories.category_id = cargos.category_id").
		Group("cargo_categories.name, cargo_categories.code").
		Order("count DESC").
		Limit(10).
		Scan(&payload.ByCategory).Error; err != nil {
		return nil, fmt.Errorf("group cargo by category: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Select(`cargos.cargo_code,
			cargos.status,
			suppliers.name AS supplier_name,
			warehouses.name AS warehouse_name,
			cargos.dispatch_date,
			cargos.expected_arrival_date`).
		Joins("JOIN suppliers ON suppliers.supplier_id = cargos.supplier_id").
		Joins("JOIN warehouses ON warehouses.warehouse_id = cargos.warehouse_id").
		Order("cargos.dispatch_date DESC").
		Limit(20).
		Scan(&payload.RecentShipments).Error; err != nil {
		return nil, fmt.Errorf("list recent shipments: %w", err)
	}

	return saveReport(db, models.ReportCargoMovement,
		fmt.Sprintf("Cargo Movement Report - %s", now.Format("January 2006")),
		"Cargo movement analysis",
		now, payload, actor)
}

// GenerateDeliveryAnalysisReport breaks down punctuality and delivery timing
// and saves the result as a report row
func GenerateDeliveryAnalysisReport(db *gorm.DB, now time.Time, actor string) (*models.Report, error) {
	var payload DeliveryAnalysisReport
	payload.GeneratedAt = now

	if err := db.Model(&models.Cargo{}).
		Where("is_delayed = ? AND status = ?", false, models.CargoReceived).
		Count(&payload.OnTimeDeliveries).Error; err != nil {
		return nil, fmt.Errorf("count on-time deliveries: %w", err)
	}
	if err := db.Model(&models.Cargo{}).
		Where("is_delayed = ?", true).
		Count(&payload.DelayedDeliveries).Error; err != nil {
		return nil, fmt.Errorf("count delayed deliveries: %w", err)
	}

	var timing struct {
		Avg float64
		Min float64
		Max float64
	}
	if err := db.Model(&models.Cargo{}).
		Select(`COALESCE(AVG(delivery_duration_hours), 0) AS avg,
			COALESCE(MIN(delivery_duration_hours), 0) AS min,
			COALESCE(MAX(delivery_duration_hours), 0) AS max`).
		Where("delivery_duration_hours IS NOT NULL").
		Scan(&timing).Error; err != nil {
		return nil, fmt.Errorf("aggregate delivery timing: %w", err)
	}
	payload.AverageDeliveryTimeHours = timing.Avg
	payload.FastestDeliveryHours = timing.Min
	payload.SlowestDeliveryHours = timing.Max

	if err := db.Model(&models.Cargo{}).
		Select(`cargos.supplier_id,
			suppliers.name AS supplier_name,
			COUNT(*) AS total,
			COUNT(CASE WHEN cargos.is_delayed THEN 1 END) AS delayed,
			COUNT(CASE WHEN NOT cargos.is_delayed AND cargos.status = 'RECEIVED' THEN 1 END) AS on_time`).
		Joins("JOIN suppliers ON suppliers.supplier_id = cargos.supplier_id").
		Group("cargos.supplier_id, suppliers.name").
		Order("total DESC").
		Limit(15).
		Scan(&payload.BySupplier).Error; err != nil {
		return nil, fmt.Errorf("group deliveries by supplier: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Select(`transport_mode,
			COUNT(*) AS count,
			COALESCE(AVG(delivery_duration_hours), 0) AS avg_time_hours,
			COUNT(CASE WHEN is_delayed THEN 1 END) AS delayed`).
		Group("transport_mode").
		Order("count DESC").
		Scan(&payload.ByTransportMode).Error; err != nil {
		return nil, fmt.Errorf("group deliveries by transport mode: %w", err)
	}

	return saveReport(db, models.ReportDeliveryAnalysis,
		fmt.Sprintf("Delivery Analysis Report - %s", now.Format("January 2006")),
		"Delivery performance analysis",
		now, payload, actor)
}

// GenerateInventorySummaryReport snapshots warehouse stock levels and saves
// the result as a report row
func GenerateInventorySummaryReport(db *gorm.DB, now time.Time, actor string) (*models.Report, error) {
	var payload InventorySummaryReport
	payload.GeneratedAt = now

	var warehouses []models.Warehouse
	if err := db.Preload("County").
		Where("is_active = ?", true).
		Order("warehouse_code").
		Find(&warehouses).Error; err != nil {
		return nil, fmt.Errorf("load active warehouses: %w", err)
	}
	payload.TotalWarehouses = int64(len(warehouses))

	payload.Warehouses = make([]WarehouseInventory, 0, len(warehouses))
	for _, wh := range warehouses {
		var held struct {
			CargoCount  int64
			TotalWeight float64
		}
		err := db.Model(&models.Cargo{}).
			Select("COUNT(*) AS cargo_count, COALESCE(SUM(weight_kg), 0) AS total_weight").
			Where("warehouse_id = ? AND status IN ?", wh.WarehouseID, heldStatuses).
			Scan(&held).Error
		if err != nil {
			return nil, fmt.Errorf("aggregate stock for warehouse %s: %w", wh.WarehouseCode, err)
		}

		payload.Warehouses = append(payload.Warehouses, WarehouseInventory{
			WarehouseID:         wh.WarehouseID,
			WarehouseCode:       wh.WarehouseCode,
			Name:                wh.Name,
			County:              wh.County.Name,
			CargoCount:          held.CargoCount,
			TotalWeightKg:       held.TotalWeight,
			CapacityUtilization: wh.UtilizationPercentage(),
		})
	}

	if err := db.Model(&models.CargoCategory{}).
		Select(`cargo_categories.name AS category_name,
			cargo_categories.code AS category_code,
			COUNT(cargos.cargo_id) AS count`).
		Joins("LEFT JOIN cargos ON cargos.category_id = cargo_categories.category_id AND cargos.status IN ?", heldStatuses).
		Group("cargo_categories.name, cargo_categories.code").
		Order("count DESC").
		Scan(&payload.Categories).Error; err != nil {
		return nil, fmt.Errorf("group stock by category: %w", err)
	}

	if err := db.Model(&models.Cargo{}).
		Where("status IN ?", heldStatuses).
		Count(&payload.TotalStoredCargo).Error; err != nil {
		return nil, fmt.Errorf("count stored cargo: %w", err)
	}

	return saveReport(db, models.ReportInventorySummary,
		fmt.Sprintf("Inventory Summary - %s", now.Format("January 2006")),
		"Warehouse inventory summary",
		now, payload, actor)
}

// GenerateMonthlySummaryReport builds the month-to-date overview and saves
// the result as a report row
func GenerateMonthlySummaryReport(db *gorm.DB, now time.Time, actor string) (*models.Report, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var payload MonthlySummaryReport
	payload.GeneratedAt = now
	payload.Period.Start = startOfMonth.Format("2006-01-02")
	payload.Period.End = now.Format("2006-01-02")
	payload.Period.Month = now.Format("January 2006")

	if err := db.Model(&models.Cargo{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(declared_value), 0) AS total_value_kes,
			COALESCE(SUM(weight_kg), 0) AS total_weight_kg`).
		Where("dispatch_date >= ?", startOfMonth).
		Scan(&payload.Cargos).Error; err != nil {
		return nil, fmt.Errorf("aggregate monthly cargo: %w", err)
	}

	if err := db.Model(&models.Supplier{}).Count(&payload.Suppliers.Total).Error; err != nil {
		return nil, fmt.Errorf("count suppliers: %w", err)
	}
	if err := db.Model(&models.Supplier{}).
		Where("status = ?", models.SupplierActive).
		Count(&payload.Suppliers.Active).Error; err != nil {
		return nil, fmt.Errorf("count active suppliers: %w", err)
	}

	if err := db.Model(&models.Warehouse{}).Count(&payload.Warehouses.Total).Error; err != nil {
		return nil, fmt.Errorf("count warehouses: %w", err)
	}
	if err := db.Model(&models.Warehouse{}).
		Where("is_active = ?", true).
		Count(&payload.Warehouses.Active).Error; err != nil {
		return nil, fmt.Errorf("count active warehouses: %w", err)
	}

	if err := db.Model(&models.Alert{}).
		Where("is_resolved = ? AND created_at >= ?", false, startOfMonth).
		Count(&payload.Alerts.Unresolved).Error; err != nil {
		return nil, fmt.Errorf("count unresolved alerts: %w", err)
	}
	if err := db.Model(&models.Alert{}).
		Where("severity = ? AND created_at >= ?", models.SeverityCritical, startOfMonth).
		Count(&payload.Alerts.Critical).Error; err != nil {
		return nil, fmt.Errorf("count critical alerts: %w", err)
	}

	if payload.Cargos.Total > 0 {
		var onTime int64
		if err := db.Model(&models.Cargo{}).
			Where("dispatch_date >= ? AND is_delayed = ? AND status = ?",
				startOfMonth, false, models.CargoReceived).
			Count(&onTime).Error; err != nil {
			return nil, fmt.Errorf("count monthly on-time deliveries: %w", err)
		}
		payload.Performance.OnTimeRate = round2(float64(onTime) / float64(payload.Cargos.Total) * 100)
	}

	return saveReport(db, models.ReportMonthlySummary,
		fmt.Sprintf("Monthly Summary - %s", now.Format("January 2006")),
		"Monthly system summary",
		now, payload, actor)
}

// GenerateAllReports runs every generator. Generation stops at the first
// failure; reports already written stay written.
func GenerateAllReports(db *gorm.DB, now time.Time, actor string) ([]*models.Report, error) {
	generators := []func(*gorm.DB, time.Time, string) (*models.Report, error){
		GenerateSupplierPerformanceReport,
		GenerateCargoMovementReport,
		GenerateDeliveryAnalysisReport,
		GenerateInventorySummaryReport,
		GenerateMonthlySummaryReport,
	}

	reports := make([]*models.Report, 0, len(generators))
	for _, generate := range generators {
		report, err := generate(db, now, actor)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// saveReport marshals the payload and persists the report row. The period
// always runs from the start of the current month to today.
func saveReport(db *gorm.DB, reportType models.ReportType, title, description string, now time.Time, payload interface{}, actor string) (*models.Report, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s report data: %w", reportType, err)
	}

	report := models.Report{
		ReportType:  reportType,
		Title:       title,
		Description: &description,
		StartDate:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		EndDate:     now,
		ReportData:  data,
	}
	report.CreatedBy = actor

	if err := db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("save %s report: %w", reportType, err)
	}
	return &report, nil
}

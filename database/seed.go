package database

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/cargotrack/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// seedActor is recorded as created_by on all seeded rows
const seedActor = "seed"

// cleanupPartialData removes all seeded data to ensure consistent state
func cleanupPartialData(db *gorm.DB) error {
	log.Println("Cleaning up partial data...")

	return db.Transaction(func(tx *gorm.DB) error {
		// Delete in reverse dependency order
		tables := []string{
			"reports",
			"alerts",
			"supplier_performance",
			"cargo_status_history",
			"cargos",
			"warehouses",
			"suppliers",
			"cargo_categories",
			"counties",
			"id_sequences",
		}

		for _, table := range tables {
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				log.Printf("Warning: Could not truncate table %s: %v", table, err)
				// Continue with other tables even if one fails
			}
		}

		log.Println("  ✓ Cleaned up partial data")
		return nil
	})
}

// SeedData seeds initial data into empty tables
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	// Check if data already exists - check multiple tables for consistency
	var countyCount, supplierCount, cargoCount int64
	db.Model(&models.County{}).Count(&countyCount)
	db.Model(&models.Supplier{}).Count(&supplierCount)
	db.Model(&models.Cargo{}).Count(&cargoCount)

	if countyCount > 0 || supplierCount > 0 || cargoCount > 0 {
		if countyCount > 0 && supplierCount > 0 && cargoCount > 0 {
			log.Println("Database already has complete data. Skipping seed.")
			return nil
		}
		log.Println("Database has partial data - cleaning up for consistent seeding...")
		if err := cleanupPartialData(db); err != nil {
			return fmt.Errorf("failed to cleanup partial data: %w", err)
		}
	}

	log.Println("Database is empty. Starting seed process...")

	// Fixed source keeps the seed reproducible across runs
	rng := rand.New(rand.NewSource(42))

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. Seed Counties
		countyMap, err := seedCounties(tx)
		if err != nil {
			return fmt.Errorf("failed to seed counties: %w", err)
		}

		// 2. Seed Cargo Categories
		if _, err := seedCargoCategories(tx); err != nil {
			return fmt.Errorf("failed to seed cargo categories: %w", err)
		}

		// 3. Seed Suppliers
		if _, err := seedSuppliers(tx, countyMap); err != nil {
			return fmt.Errorf("failed to seed suppliers: %w", err)
		}

		// 4. Seed Warehouses
		if _, err := seedWarehouses(tx, countyMap); err != nil {
			return fmt.Errorf("failed to seed warehouses: %w", err)
		}

		// 5. Seed Cargo Shipments
		if err := seedCargoShipments(tx, rng); err != nil {
			return fmt.Errorf("failed to seed cargo shipments: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Derived data is built by the same paths production uses
	log.Println("Calculating supplier performance...")
	if _, err := RecalculateAllSupplierPerformance(db); err != nil {
		return fmt.Errorf("failed to calculate supplier performance: %w", err)
	}
	log.Println("  ✓ Supplier performance calculated")

	log.Println("Evaluating alerts...")
	evaluation, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, seedActor)
	if err != nil {
		return fmt.Errorf("failed to evaluate alerts: %w", err)
	}
	log.Printf("  ✓ Created %d delay alerts, %d capacity alerts",
		evaluation.DelayAlerts, evaluation.CapacityAlerts)

	log.Println("✅ Database seeded successfully!")
	return nil
}

// seedCounties creates the Kenyan counties used for supplier and warehouse
// locations
func seedCounties(tx *gorm.DB) (map[string]uint, error) {
	counties := []models.County{
		{Name: "Nairobi", Code: "NRB"},
		{Name: "Mombasa", Code: "MBA"},
		{Name: "Kiambu", Code: "KIA"},
		{Name: "Nakuru", Code: "NAK"},
		{Name: "Kisumu", Code: "KSM"},
		{Name: "Machakos", Code: "MCH"},
		{Name: "Kajiado", Code: "KAJ"},
		{Name: "Uasin Gishu", Code: "UGS"},
		{Name: "Nyeri", Code: "NYR"},
		{Name: "Meru", Code: "MRU"},
		{Name: "Kirinyaga", Code: "KRG"},
		{Name: "Murang'a", Code: "MRG"},
	}

	if err := tx.Create(&counties).Error; err != nil {
		return nil, err
	}
	log.Printf("  ✓ Seeded %d counties", len(counties))

	countyMap := make(map[string]uint)
	for _, c := range counties {
		countyMap[c.Name] = c.CountyID
	}
	return countyMap, nil
}

// seedCargoCategories creates cargo category data
func seedCargoCategories(tx *gorm.DB) (map[string]uint, error) {
	categories := []models.CargoCategory{
		{Name: "Electronics", Code: "ELEC", Description: strPtr("Electronic goods and appliances"), RequiresSpecialHandling: true, IsActive: true},
		{Name: "Food & Beverages", Code: "FOOD", Description: strPtr("Perishable and non-perishable food items"), RequiresSpecialHandling: true, IsActive: true},
		{Name: "Building Materials", Code: "BLDG", Description: strPtr("Construction materials and hardware"), IsActive: true},
		{Name: "Textiles & Clothing", Code: "TEXT", Description: strPtr("Fabrics, clothing, and accessories"), IsActive: true},
		{Name: "Agricultural Products", Code: "AGRI", Description: strPtr("Farm produce and supplies"), RequiresSpecialHandling: true, IsActive: true},
		{Name: "Pharmaceuticals", Code: "PHAR", Description: strPtr("Medical supplies and medicines"), RequiresSpecialHandling: true, IsActive: true},
		{Name: "Automotive Parts", Code: "AUTO", Description: strPtr("Vehicle parts and accessories"), IsActive: true},
		{Name: "General Merchandise", Code: "GENM", Description: strPtr("General goods and supplies"), IsActive: true},
	}

	if err := tx.Create(&categories).Error; err != nil {
		return nil, err
	}
	log.Printf("  ✓ Seeded %d cargo categories", len(categories))

	categoryMap := make(map[string]uint)
	for _, cat := range categories {
		categoryMap[cat.Code] = cat.CategoryID
	}
	return categoryMap, nil
}

// seedSuppliers creates suppliers with realistic Kenyan data. Each supplier
// gets its sequential SUP code through the normal creation path.
func seedSuppliers(tx *gorm.DB, countyMap map[string]uint) (map[string]uint, error) {
	suppliers := []models.Supplier{
		{
			Name:                 "Nairobi Electronics Ltd",
			SupplierType:         models.SupplierDistributor,
			KraPin:               "P051234567M",
			PrimaryContactPerson: "John Mwangi",
			PhoneNumber:          "+254712345678",
			Email:                "sales@nbielectronics.co.ke",
			CountyID:             countyMap["Nairobi"],
			TownCity:             "Industrial Area",
			PhysicalAddress:      "Enterprise Road, Off Mombasa Road",
			GoodsSupplied:        "Consumer electronics, home appliances, computers",
			PaymentTerms:         strPtr("Net 30"),
			CreditLimit:          decimal.NewFromInt(5000000),
		},
		{
			Name:                 "Mombasa Imports & Exports",
			SupplierType:         models.SupplierImporter,
			KraPin:               "P052345678N",
			PrimaryContactPerson: "Fatuma Hassan",
			PhoneNumber:          "+254723456789",
			Email:                "info@mombasaimports.co.ke",
			CountyID:             countyMap["Mombasa"],
			TownCity:             "Port Reitz",
			PhysicalAddress:      "Shimanzi Area, Near Port",
			GoodsSupplied:        "General merchandise, textiles, building materials",
			PaymentTerms:         strPtr("Advance Payment"),
			CreditLimit:          decimal.NewFromInt(8000000),
		},
		{
			Name:                 "Central Kenya Farmers Cooperative",
			SupplierType:         models.SupplierLocalProducer,
			KraPin:               "P053456789O",
			PrimaryContactPerson: "Peter Kamau",
			PhoneNumber:          "+254734567890",
			Email:                "manager@ckfc.co.ke",
			CountyID:             countyMap["Nyeri"],
			TownCity:             "Nyeri Town",
			PhysicalAddress:      "Kimathi Way, Nyeri",
			GoodsSupplied:        "Coffee, tea, vegetables, dairy products",
			PaymentTerms:         strPtr("COD"),
			CreditLimit:          decimal.NewFromInt(2000000),
		},
		{
			Name:                 "Nakuru Hardware Supplies",
			SupplierType:         models.SupplierWholesaler,
			KraPin:               "P054567890P",
			PrimaryContactPerson: "David Kipchoge",
			PhoneNumber:          "+254745678901",
			Email:                "orders@nakuruhardware.co.ke",
			CountyID:             countyMap["Nakuru"],
			TownCity:             "Nakuru CBD",
			PhysicalAddress:      "Kenyatta Avenue, Nakuru",
			GoodsSupplied:        "Building materials, cement, steel, hardware",
			PaymentTerms:         strPtr("Net 15"),
			CreditLimit:          decimal.NewFromInt(4000000),
		},
		{
			Name:                 "Kisumu Pharma Distributors",
			SupplierType:         models.SupplierDistributor,
			KraPin:               "P055678901Q",
			PrimaryContactPerson: "Dr. Grace Otieno",
			PhoneNumber:          "+254756789012",
			Email:                "info@kisumupharma.co.ke",
			CountyID:             countyMap["Kisumu"],
			TownCity:             "Kisumu",
			PhysicalAddress:      "Oginga Odinga Road, Kisumu",
			GoodsSupplied:        "Pharmaceuticals, medical supplies, laboratory equipment",
			PaymentTerms:         strPtr("Net 45"),
			CreditLimit:          decimal.NewFromInt(6000000),
		},
		{
			Name:                 "East Africa Textiles Manufacturing",
			SupplierType:         models.SupplierManufacturer,
			KraPin:               "P056789012R",
			PrimaryContactPerson: "Sarah Wanjiru",
			PhoneNumber:          "+254767890123",
			Email:                "sales@eatextiles.co.ke",
			CountyID:             countyMap["Kiambu"],
			TownCity:             "Ruiru",
			PhysicalAddress:      "Thika Road, Ruiru Industrial Park",
			GoodsSupplied:        "Textiles, fabrics, clothing, uniforms",
			PaymentTerms:         strPtr("Net 30"),
			CreditLimit:          decimal.NewFromInt(3500000),
		},
	}

	supplierMap := make(map[string]uint)
	for i := range suppliers {
		suppliers[i].Status = models.SupplierActive
		if err := CreateSupplier(tx, &suppliers[i], seedActor); err != nil {
			return nil, err
		}
		supplierMap[suppliers[i].Name] = suppliers[i].SupplierID
	}
	log.Printf("  ✓ Seeded %d suppliers", len(suppliers))

	return supplierMap, nil
}

// seedWarehouses creates warehouse data. Mombasa is seeded close to full so
// the capacity alert rule has something to find.
func seedWarehouses(tx *gorm.DB, countyMap map[string]uint) (map[string]uint, error) {
	warehouses := []models.Warehouse{
		{
			Name:                  "Nairobi Central Warehouse",
			WarehouseType:         models.WarehouseMain,
			CountyID:              countyMap["Nairobi"],
			TownCity:              "Embakasi",
			PhysicalAddress:       "Mombasa Road, Embakasi",
			GPSCoordinates:        strPtr("-1.3167, 36.9333"),
			TotalCapacitySqm:      5000,
			CurrentUtilizationSqm: 3100,
			ManagerName:           "James Ochieng",
			ManagerPhone:          "+254711111111",
			ManagerEmail:          "manager.nairobi@warehouse.co.ke",
			OperatingHours:        "Mon-Fri 7AM-7PM, Sat 8AM-5PM",
		},
		{
			Name:                  "Mombasa Port Warehouse",
			WarehouseType:         models.WarehouseRegional,
			CountyID:              countyMap["Mombasa"],
			TownCity:              "Changamwe",
			PhysicalAddress:       "Port Reitz Road, Changamwe",
			GPSCoordinates:        strPtr("-4.0435, 39.6682"),
			TotalCapacitySqm:      8000,
			CurrentUtilizationSqm: 7200,
			ManagerName:           "Ali Mohammed",
			ManagerPhone:          "+254722222222",
			ManagerEmail:          "manager.mombasa@warehouse.co.ke",
			OperatingHours:        "Mon-Sat 6AM-8PM",
		},
		{
			Name:                  "Nakuru Distribution Center",
			WarehouseType:         models.WarehouseRegional,
			CountyID:              countyMap["Nakuru"],
			TownCity:              "Nakuru",
			PhysicalAddress:       "Nairobi-Nakuru Highway",
			GPSCoordinates:        strPtr("-0.3031, 36.0800"),
			TotalCapacitySqm:      3000,
			CurrentUtilizationSqm: 1450,
			ManagerName:           "Mary Chepkemoi",
			ManagerPhone:          "+254733333333",
			ManagerEmail:          "manager.nakuru@warehouse.co.ke",
			OperatingHours:        "Mon-Fri 8AM-6PM, Sat 8AM-2PM",
		},
		{
			Name:                  "Kisumu Storage Facility",
			WarehouseType:         models.WarehouseStorage,
			CountyID:              countyMap["Kisumu"],
			TownCity:              "Kisumu",
			PhysicalAddress:       "Kisumu-Busia Road",
			GPSCoordinates:        strPtr("-0.0917, 34.7680"),
			TotalCapacitySqm:      2500,
			CurrentUtilizationSqm: 900,
			ManagerName:           "Tom Otieno",
			ManagerPhone:          "+254744444444",
			ManagerEmail:          "manager.kisumu@warehouse.co.ke",
			OperatingHours:        "Mon-Fri 8AM-5PM",
		},
	}

	warehouseMap := make(map[string]uint)
	for i := range warehouses {
		warehouses[i].IsActive = true
		if err := CreateWarehouse(tx, &warehouses[i], seedActor); err != nil {
			return nil, err
		}
		warehouseMap[warehouses[i].Name] = warehouses[i].WarehouseID
	}
	log.Printf("  ✓ Seeded %d warehouses", len(warehouses))

	return warehouseMap, nil
}

// statusLadder is the normal forward progression used when seeding history
var statusLadder = []models.CargoStatus{
	models.CargoDispatched,
	models.CargoInTransit,
	models.CargoArrived,
	models.CargoReceived,
	models.CargoStored,
}

// seedCargoShipments creates cargo shipments at assorted lifecycle stages.
// Each cargo walks the normal status progression so the history table gets a
// realistic audit trail, and arrival timestamps are spread from 20% early to
// 30% late so both on-time and delayed deliveries exist.
func seedCargoShipments(tx *gorm.DB, rng *rand.Rand) error {
	var suppliers []models.Supplier
	if err := tx.Find(&suppliers).Error; err != nil {
		return err
	}
	var warehouses []models.Warehouse
	if err := tx.Find(&warehouses).Error; err != nil {
		return err
	}
	var categories []models.CargoCategory
	if err := tx.Find(&categories).Error; err != nil {
		return err
	}

	descriptions := []string{
		"Carton of LED TVs - 32 inch",
		"Bags of Maize - Grade A",
		"Boxes of Paracetamol Tablets",
		"Cement bags - 50kg",
		"Rolls of Cotton Fabric",
		"Crates of Fresh Vegetables",
		"Boxes of Mobile Phones",
		"Steel Rods - 12mm diameter",
		"Cartons of Cooking Oil",
		"Pharmaceutical Supplies Mixed",
	}
	drivers := []string{"John Mwangi", "Peter Kamau", "James Otieno", "David Kipchoge"}
	units := []string{"PCS", "KG", "BOXES", "PALLETS"}
	modes := []models.TransportMode{models.TransportRoad, models.TransportRail, models.TransportMultimodal}
	priorities := []models.CargoPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
	conditions := []models.ArrivalCondition{
		models.ConditionExcellent,
		models.ConditionGood, models.ConditionGood, models.ConditionGood,
		models.ConditionFair,
	}
	plateLetters := "ABCDEFGHJKLMNPQRSTUVWXYZ"

	now := time.Now()
	const cargoCount = 25

	for i := 0; i < cargoCount; i++ {
		supplier := suppliers[rng.Intn(len(suppliers))]
		warehouse := warehouses[rng.Intn(len(warehouses))]
		category := categories[rng.Intn(len(categories))]

		dispatchDate := now.AddDate(0, 0, -(1 + rng.Intn(60)))
		expectedHours := float64(12 + rng.Intn(61))
		expectedArrival := dispatchDate.Add(time.Duration(expectedHours * float64(time.Hour)))

		targetIdx := rng.Intn(len(statusLadder))

		volume := 5 + rng.Float64()*45
		insurance := decimal.NewFromFloat(60000 + rng.Float64()*5440000).Round(2)

		cargo := models.Cargo{
			SupplierID:          supplier.SupplierID,
			WarehouseID:         warehouse.WarehouseID,
			CategoryID:          category.CategoryID,
			Description:         descriptions[rng.Intn(len(descriptions))],
			Quantity:            10 + rng.Intn(491),
			UnitOfMeasurement:   units[rng.Intn(len(units))],
			WeightKg:            100 + rng.Float64()*4900,
			VolumeCbm:           &volume,
			DeclaredValue:       decimal.NewFromFloat(50000 + rng.Float64()*4950000).Round(2),
			InsuranceValue:      &insurance,
			DispatchDate:        dispatchDate,
			ExpectedArrivalDate: expectedArrival,
			TransportMode:       modes[rng.Intn(len(modes))],
			VehicleRegistration: strPtr(fmt.Sprintf("KX%d%c", 100+rng.Intn(900), plateLetters[rng.Intn(len(plateLetters))])),
			DriverName:          strPtr(drivers[rng.Intn(len(drivers))]),
			DriverPhone:         strPtr(fmt.Sprintf("+2547%08d", 10000000+rng.Intn(90000000))),
			Status:              models.CargoDispatched,
			Priority:            priorities[rng.Intn(len(priorities))],
			PurchaseOrderNumber: strPtr(fmt.Sprintf("PO-2024-%d", 1000+rng.Intn(9000))),
			InvoiceNumber:       strPtr(fmt.Sprintf("INV-%d", 10000+rng.Intn(90000))),
		}

		// Arrived and later: stamp actual arrival between 20% early and
		// 30% late
		if targetIdx >= 2 {
			delayFactor := -0.2 + rng.Float64()*0.5
			actualArrival := dispatchDate.Add(time.Duration(expectedHours * (1 + delayFactor) * float64(time.Hour)))
			cargo.ActualArrivalDate = &actualArrival
			cargo.ConditionOnArrival = &conditions[rng.Intn(len(conditions))]
		}
		if targetIdx >= 3 {
			receivedDate := cargo.ActualArrivalDate.Add(time.Duration(1+rng.Intn(8)) * time.Hour)
			cargo.ReceivedDate = &receivedDate
			cargo.QualityCheckPassed = rng.Intn(4) != 0
			cargo.StorageLocation = strPtr(fmt.Sprintf("Aisle %d, Bay %d", 1+rng.Intn(10), 1+rng.Intn(20)))
		}

		if err := CreateCargo(tx, &cargo, seedActor); err != nil {
			return err
		}

		for step := 1; step <= targetIdx; step++ {
			change := StatusChange{
				Reason:   strPtr("Normal progression"),
				Location: strPtr(warehouse.Name),
			}
			if _, err := ChangeCargoStatus(tx, cargo.CargoID, statusLadder[step], change, seedActor); err != nil {
				return err
			}
		}
	}

	log.Printf("  ✓ Seeded %d cargo shipments", cargoCount)
	return nil
}

func strPtr(s string) *string {
	return &s
}

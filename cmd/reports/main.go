package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cargotrack/config"
	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
)

func main() {
	// Define flags
	reportType := flag.String("type", "", "Generate a single report type instead of all")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("📈 Starting Report Generation Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("📊 Database: %s@%s:%s/%s\n\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatal("Database connection check failed:", err)
	}

	now := time.Now()
	const actor = "reports-cli"

	var reports []*models.Report
	if *reportType == "" {
		reports, err = database.GenerateAllReports(database.DB, now, actor)
	} else {
		var report *models.Report
		report, err = generateOne(models.ReportType(*reportType), now, actor)
		if report != nil {
			reports = append(reports, report)
		}
	}
	if err != nil {
		log.Fatal("Failed to generate reports:", err)
	}

	fmt.Printf("\n✅ Generated %d report(s) for %s:\n", len(reports), now.Format("January 2006"))
	for _, report := range reports {
		fmt.Printf("  #%d  %-25s %s\n", report.ReportID, report.ReportType, report.Title)
	}
}

func generateOne(reportType models.ReportType, now time.Time, actor string) (*models.Report, error) {
	switch reportType {
	case models.ReportSupplierPerformance:
		return database.GenerateSupplierPerformanceReport(database.DB, now, actor)
	case models.ReportCargoMovement:
		return database.GenerateCargoMovementReport(database.DB, now, actor)
	case models.ReportDeliveryAnalysis:
		return database.GenerateDeliveryAnalysisReport(database.DB, now, actor)
	case models.ReportInventorySummary:
		return database.GenerateInventorySummaryReport(database.DB, now, actor)
	case models.ReportMonthlySummary:
		return database.GenerateMonthlySummaryReport(database.DB, now, actor)
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}
}

func showHelp() {
	fmt.Println("Report Generation Tool")
	fmt.Println("======================")
	fmt.Println("\nUsage:")
	fmt.Println("  go run cmd/reports/main.go [flags]")
	fmt.Println("\nFlags:")
	fmt.Println("  -type     Report type to generate (default: all)")
	fmt.Println("            SUPPLIER_PERFORMANCE, CARGO_MOVEMENT, DELIVERY_ANALYSIS,")
	fmt.Println("            INVENTORY_SUMMARY, MONTHLY_SUMMARY")
	fmt.Println("  -help     Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate all five reports for the current month")
	fmt.Println("  go run cmd/reports/main.go")
	fmt.Println("\n  # Generate only the supplier performance report")
	fmt.Println("  go run cmd/reports/main.go -type SUPPLIER_PERFORMANCE")
}

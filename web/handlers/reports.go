package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportList returns report metadata, newest first. Payloads are fetched per
// report through ReportView.
func ReportList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Report{}).
		Select("report_id", "report_type", "title", "description", "start_date", "end_date", "created_at", "created_by")
	if reportType := c.Query("type"); reportType != "" {
		query = query.Where("report_type = ?", reportType)
	}

	var reports []models.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load reports: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":   len(reports),
		"reports": reports,
	})
}

// ReportView returns one report with its payload decoded
func ReportView(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var report models.Report
	if err := db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"report_id":   report.ReportID,
		"report_type": report.ReportType,
		"title":       report.Title,
		"description": report.Description,
		"start_date":  report.StartDate,
		"end_date":    report.EndDate,
		"created_at":  report.CreatedAt,
		"created_by":  report.CreatedBy,
		"data":        json.RawMessage(report.ReportData),
	})
}

type generateRequest struct {
	Type models.ReportType `json:"type"`
}

// ReportGenerate runs one report generator, or all of them when no type is
// given
func ReportGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}

	db := database.GetDB()
	now := time.Now()
	who := actor(c)

	if req.Type == "" {
		reports, err := database.GenerateAllReports(db, now, who)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "report generation failed: "+err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"generated": len(reports),
			"reports":   reportSummaries(reports),
		})
	}

	var (
		report *models.Report
		err    error
	)
	switch req.Type {
	case models.ReportSupplierPerformance:
		report, err = database.GenerateSupplierPerformanceReport(db, now, who)
	case models.ReportCargoMovement:
		report, err = database.GenerateCargoMovementReport(db, now, who)
	case models.ReportDeliveryAnalysis:
		report, err = database.GenerateDeliveryAnalysisReport(db, now, who)
	case models.ReportInventorySummary:
		report, err = database.GenerateInventorySummaryReport(db, now, who)
	case models.ReportMonthlySummary:
		report, err = database.GenerateMonthlySummaryReport(db, now, who)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown report type "+string(req.Type))
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "report generation failed: "+err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"report_id":   report.ReportID,
		"report_type": report.ReportType,
		"title":       report.Title,
	})
}

func reportSummaries(reports []*models.Report) []fiber.Map {
	summaries := make([]fiber.Map, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, fiber.Map{
			"report_id":   r.ReportID,
			"report_type": r.ReportType,
			"title":       r.Title,
		})
	}
	return summaries
}

// ReportDelete removes a stored report snapshot
func ReportDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result := database.GetDB().Delete(&models.Report{}, id)
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "report not found")
	}
	return c.JSON(fiber.Map{"message": "report deleted"})
}

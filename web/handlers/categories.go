package handlers

import (
	"errors"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CategoryList returns all cargo categories
func CategoryList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.CargoCategory{})
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.CargoCategory
	if err := query.Order("code").Find(&categories).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load categories: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":      len(categories),
		"categories": categories,
	})
}

// CategoryCreate adds a cargo category
func CategoryCreate(c *fiber.Ctx) error {
	var category models.CargoCategory
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if category.Name == "" || category.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and code are required")
	}
	category.CategoryID = 0

	if err := database.GetDB().Create(&category).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create category: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// CategoryUpdate edits a cargo category
func CategoryUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var category models.CargoCategory
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	keep := category
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	category.CategoryID = keep.CategoryID

	if err := db.Save(&category).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update category: "+err.Error())
	}
	return c.JSON(category)
}

// CategoryDelete removes a category unless cargo still references it
func CategoryDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = database.DeleteCargoCategory(database.GetDB(), id)
	switch {
	case errors.Is(err, database.ErrCategoryInUse):
		return fiber.NewError(fiber.StatusConflict, "category has cargo records and cannot be deleted")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}

// CountyCreate adds a county to the lookup table
func CountyCreate(c *fiber.Ctx) error {
	var county models.County
	if err := c.BodyParser(&county); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if county.Name == "" || county.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and code are required")
	}
	county.CountyID = 0

	if err := database.GetDB().Create(&county).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create county: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(county)
}

// CountyDelete removes a county unless suppliers or warehouses reference it
func CountyDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = database.DeleteCounty(database.GetDB(), id)
	switch {
	case errors.Is(err, database.ErrCountyInUse):
		return fiber.NewError(fiber.StatusConflict, "county has suppliers or warehouses and cannot be deleted")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "county not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "county deleted"})
}

// CountyList returns the counties lookup table
func CountyList(c *fiber.Ctx) error {
	var counties []models.County
	if err := database.GetDB().Order("name").Find(&counties).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load counties: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":    len(counties),
		"counties": counties,
	})
}

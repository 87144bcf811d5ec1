package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/catalog"
	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/webserver"
	"github.com/voltshop/storefront/pkg/common"
)

func registerCategoryRoutes() {
	webserver.PubGET("/categories", listCategories)
	webserver.PubGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/reorder", reorderCategories)
	webserver.ApiPUT("/categories/update-counts", updateCategoryCounts)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	tx := GetDB(c).Model(&domain.Category{})
	if c.QueryParam("active") != "false" {
		tx = tx.Where("is_active = ?", true)
	}
	var categories []domain.Category
	if err := tx.Order("sort_order ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching categories", err.Error())
	}
	return ok(c, categories)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category ID", "")
	}
	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching category", err.Error())
	}
	return ok(c, category)
}

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
	Order       *int   `json:"order"`
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "Category name is required", "")
	}

	var dup domain.Category
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "Category with this name already exists", "")
	}

	category := domain.Category{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: payload.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if payload.IsActive != nil {
		category.IsActive = *payload.IsActive
	}
	if payload.Order != nil {
		category.SortOrder = *payload.Order
	}

	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error creating category", err.Error())
	}
	auditLog(c, "category_create", category.Name)
	return created(c, "Category created successfully", category)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category ID", "")
	}
	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse category", err.Error())
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		category.Name = name
	}
	if payload.Description != "" {
		category.Description = payload.Description
	}
	if payload.IsActive != nil {
		category.IsActive = *payload.IsActive
	}
	if payload.Order != nil {
		category.SortOrder = *payload.Order
	}
	category.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error updating category", err.Error())
	}
	auditLog(c, "category_update", category.Name)
	GetApp(c).Bus().Publish(catalog.TopicCatalogChanged)
	return okMessage(c, "Category updated successfully", category)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category ID", "")
	}
	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching category", err.Error())
	}

	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return fail(c, http.StatusBadRequest, "Cannot delete category with products", "")
	}

	if err := GetDB(c).Delete(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error deleting category", err.Error())
	}
	auditLog(c, "category_delete", category.Name)
	return okMessage(c, "Category deleted successfully", nil)
}

type reorderItem struct {
	ID    int64 `json:"id,string"`
	Order int   `json:"order"`
}

func reorderCategories(c echo.Context) error {
	var payload struct {
		Categories []reorderItem `json:"categories"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid data format", err.Error())
	}
	if payload.Categories == nil {
		return fail(c, http.StatusBadRequest, "Invalid data format", "")
	}

	for _, item := range payload.Categories {
		GetDB(c).Model(&domain.Category{}).Where("id = ?", item.ID).
			UpdateColumn("sort_order", item.Order)
	}

	var categories []domain.Category
	if err := GetDB(c).Order("sort_order ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching categories", err.Error())
	}
	auditLog(c, "category_reorder", "")
	return okMessage(c, "Categories reordered successfully", categories)
}

// updateCategoryCounts recomputes every category's cached product count on
// demand.
func updateCategoryCounts(c echo.Context) error {
	if err := catalog.RecomputeProductCounts(GetDB(c)); err != nil {
		return fail(c, http.StatusInternalServerError, "Error updating category counts", err.Error())
	}
	var categories []domain.Category
	if err := GetDB(c).Order("sort_order ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching categories", err.Error())
	}
	return okMessage(c, "Category counts updated successfully", categories)
}

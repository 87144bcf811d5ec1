package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/webserver"
	"github.com/voltshop/storefront/pkg/common"
)

func registerBannerRoutes() {
	webserver.PubGET("/banners", listBanners)
	webserver.ApiGET("/banners/all", listAllBanners)
	webserver.PubGET("/banners/:id", getBanner)
	webserver.ApiPOST("/banners", createBanner)
	webserver.ApiPUT("/banners/reorder", reorderBanners)
	webserver.ApiPUT("/banners/:id", updateBanner)
	webserver.ApiDELETE("/banners/:id", deleteBanner)
}

// listBanners returns banners for the storefront: active and inside their
// display window, in display order.
func listBanners(c echo.Context) error {
	var banners []domain.Banner
	tx := GetDB(c).Order("sort_order ASC")
	if c.QueryParam("active") != "false" {
		now := time.Now()
		tx = tx.Where("is_active = ?", true).
			Where("start_at IS NULL OR start_at <= ?", now).
			Where("end_at IS NULL OR end_at >= ?", now)
	}
	if err := tx.Find(&banners).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching banners", err.Error())
	}
	return ok(c, banners)
}

func listAllBanners(c echo.Context) error {
	var banners []domain.Banner
	if err := GetDB(c).Order("sort_order ASC").Find(&banners).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching banners", err.Error())
	}
	return ok(c, banners)
}

func getBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid banner ID", "")
	}
	var banner domain.Banner
	if err := GetDB(c).Where("id = ?", id).First(&banner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Banner not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching banner", err.Error())
	}
	return ok(c, banner)
}

type bannerPayload struct {
	Title       string     `json:"title"`
	Subtitle    *string    `json:"subtitle"`
	Description *string    `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	ImageId     string     `json:"imageId"`
	ButtonText  *string    `json:"buttonText"`
	ButtonLink  *string    `json:"buttonLink"`
	Badge       *string    `json:"badge"`
	Order       *int       `json:"order"`
	IsActive    *bool      `json:"isActive"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
}

func createBanner(c echo.Context) error {
	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse banner", err.Error())
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return fail(c, http.StatusBadRequest, "Banner title is required", "")
	}
	if payload.ImageURL == "" {
		return fail(c, http.StatusBadRequest, "Banner image is required", "")
	}

	banner := domain.Banner{
		ID:         common.UUIDint64(),
		Title:      payload.Title,
		ImageURL:   payload.ImageURL,
		ImageId:    payload.ImageId,
		ButtonText: "Shop Now",
		ButtonLink: "/products",
		IsActive:   true,
		StartAt:    payload.StartAt,
		EndAt:      payload.EndAt,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if payload.Subtitle != nil {
		banner.Subtitle = *payload.Subtitle
	}
	if payload.Description != nil {
		banner.Description = *payload.Description
	}
	if payload.ButtonText != nil {
		banner.ButtonText = *payload.ButtonText
	}
	if payload.ButtonLink != nil {
		banner.ButtonLink = *payload.ButtonLink
	}
	if payload.Badge != nil {
		banner.Badge = *payload.Badge
	}
	if payload.Order != nil {
		banner.SortOrder = *payload.Order
	}
	if payload.IsActive != nil {
		banner.IsActive = *payload.IsActive
	}

	if err := GetDB(c).Create(&banner).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error creating banner", err.Error())
	}
	auditLog(c, "banner_create", banner.Title)
	return created(c, "Banner created successfully", banner)
}

func updateBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid banner ID", "")
	}
	var banner domain.Banner
	if err := GetDB(c).Where("id = ?", id).First(&banner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Banner not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching banner", err.Error())
	}

	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse banner", err.Error())
	}

	if payload.ImageURL != "" && payload.ImageId != banner.ImageId {
		// replacing the image; release the old asset
		if banner.ImageId != "" {
			if err := mediaDeleter.Delete(banner.ImageId); err != nil {
				zap.L().Warn("failed to delete old banner image",
					zap.String("public_id", banner.ImageId), zap.Error(err))
			}
		}
		banner.ImageURL = payload.ImageURL
		banner.ImageId = payload.ImageId
	}

	if title := strings.TrimSpace(payload.Title); title != "" {
		banner.Title = title
	}
	if payload.Subtitle != nil {
		banner.Subtitle = *payload.Subtitle
	}
	if payload.Description != nil {
		banner.Description = *payload.Description
	}
	if payload.ButtonText != nil {
		banner.ButtonText = *payload.ButtonText
	}
	if payload.ButtonLink != nil {
		banner.ButtonLink = *payload.ButtonLink
	}
	if payload.Badge != nil {
		banner.Badge = *payload.Badge
	}
	if payload.Order != nil {
		banner.SortOrder = *payload.Order
	}
	if payload.IsActive != nil {
		banner.IsActive = *payload.IsActive
	}
	if payload.StartAt != nil {
		banner.StartAt = payload.StartAt
	}
	if payload.EndAt != nil {
		banner.EndAt = payload.EndAt
	}
	banner.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&banner).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error updating banner", err.Error())
	}
	auditLog(c, "banner_update", banner.Title)
	return okMessage(c, "Banner updated successfully", banner)
}

func deleteBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid banner ID", "")
	}
	var banner domain.Banner
	if err := GetDB(c).Where("id = ?", id).First(&banner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Banner not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching banner", err.Error())
	}

	if banner.ImageId != "" {
		if err := mediaDeleter.Delete(banner.ImageId); err != nil {
			zap.L().Warn("failed to delete banner image",
				zap.String("public_id", banner.ImageId), zap.Error(err))
		}
	}

	if err := GetDB(c).Delete(&banner).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error deleting banner", err.Error())
	}
	auditLog(c, "banner_delete", banner.Title)
	return okMessage(c, "Banner deleted successfully", nil)
}

func reorderBanners(c echo.Context) error {
	var payload struct {
		Banners []reorderItem `json:"banners"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid data format", err.Error())
	}
	if payload.Banners == nil {
		return fail(c, http.StatusBadRequest, "Invalid data format", "")
	}

	for _, item := range payload.Banners {
		GetDB(c).Model(&domain.Banner{}).Where("id = ?", item.ID).
			UpdateColumn("sort_order", item.Order)
	}

	var banners []domain.Banner
	if err := GetDB(c).Order("sort_order ASC").Find(&banners).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching banners", err.Error())
	}
	auditLog(c, "banner_reorder", "")
	return okMessage(c, "Banners reordered successfully", banners)
}

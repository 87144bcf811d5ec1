package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/catalog"
	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/webserver"
	"github.com/voltshop/storefront/pkg/common"
)

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/slug/:slug", getProductBySlug)
	webserver.PubGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	q := catalog.NewProductQuery()
	q.Page, q.Limit = parsePagination(c)
	q.Search = strings.TrimSpace(c.QueryParam("search"))
	q.Sort = c.QueryParam("sort")

	if v := c.QueryParam("category"); v != "" {
		q.CategoryId = cast.ToInt64(v)
	}
	if v := c.QueryParam("minPrice"); v != "" {
		price := cast.ToFloat64(v)
		q.MinPrice = &price
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		price := cast.ToFloat64(v)
		q.MaxPrice = &price
	}
	q.FeaturedOnly = c.QueryParam("featured") == "true"
	// active filter defaults on; only an explicit active=false disables it
	q.ActiveOnly = c.QueryParam("active") != "false"

	products, total, err := q.Run(GetDB(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching products", err.Error())
	}
	return paged(c, products, total, q.Page, q.Limit)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", "")
	}
	var product domain.Product
	if err := GetDB(c).Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching product", err.Error())
	}
	return ok(c, product)
}

func getProductBySlug(c echo.Context) error {
	var product domain.Product
	err := GetDB(c).Preload("Category").Where("slug = ?", c.Param("slug")).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching product", err.Error())
	}
	return ok(c, product)
}

// productPayload accepts the loosely-typed admin payload: list fields arrive
// as JSON arrays or CSV strings, specs as an object or a JSON string,
// booleans as bool or "true"/"false". The loose* helpers normalize everything
// before the store is touched.
type productPayload struct {
	Name             string               `json:"name"`
	Category         json.RawMessage      `json:"category"`
	Price            json.RawMessage      `json:"price"`
	DiscountPrice    json.RawMessage      `json:"discountPrice"`
	Images           []domain.ProductImage `json:"images"`
	Description      string               `json:"description"`
	ShortDescription *string              `json:"shortDescription"`
	Features         json.RawMessage      `json:"features"`
	Specs            json.RawMessage      `json:"specs"`
	Stock            json.RawMessage      `json:"stock"`
	Sku              *string              `json:"sku"`
	IsActive         json.RawMessage      `json:"isActive"`
	IsFeatured       json.RawMessage      `json:"isFeatured"`
	Tags             json.RawMessage      `json:"tags"`
}

// looseScalar decodes a raw JSON scalar into its Go value ("5", 5 and
// "true" all round-trip through cast later).
func looseScalar(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// looseStringList accepts a JSON array of strings or a CSV string.
func looseStringList(raw json.RawMessage) (domain.StringList, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("expected array or string")
	}
	var out domain.StringList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// looseSpecs accepts a specs object or a JSON-encoded string of one.
func looseSpecs(raw json.RawMessage) (*domain.ProductSpecs, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	specs := &domain.ProductSpecs{}
	if err := json.Unmarshal(raw, specs); err == nil {
		return specs, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("expected object or string")
	}
	if err := json.Unmarshal([]byte(s), specs); err != nil {
		return nil, fmt.Errorf("invalid specs JSON: %v", err)
	}
	return specs, nil
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product", err.Error())
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "Name is required", "")
	}
	price := cast.ToFloat64(looseScalar(payload.Price))
	if price < 0 {
		return fail(c, http.StatusBadRequest, "Price cannot be negative", "")
	}

	features, err := looseStringList(payload.Features)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid features field", err.Error())
	}
	tags, err := looseStringList(payload.Tags)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid tags field", err.Error())
	}
	specs, err := looseSpecs(payload.Specs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid specs field", err.Error())
	}

	now := time.Now()
	product := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Slug:        catalog.Slugify(payload.Name),
		CategoryId:  cast.ToInt64(looseScalar(payload.Category)),
		Price:       price,
		Images:      payload.Images,
		Description: payload.Description,
		Features:    features,
		Stock:       cast.ToInt(looseScalar(payload.Stock)),
		Sku:         payload.Sku,
		IsActive:    true,
		IsFeatured:  cast.ToBool(looseScalar(payload.IsFeatured)),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.ShortDescription != nil {
		product.ShortDescription = *payload.ShortDescription
	}
	if v := looseScalar(payload.DiscountPrice); v != nil {
		dp := cast.ToFloat64(v)
		if dp < 0 {
			return fail(c, http.StatusBadRequest, "Discount price cannot be negative", "")
		}
		product.DiscountPrice = &dp
	}
	if specs != nil {
		product.Specs = *specs
	}
	if product.Specs.Warranty == "" {
		product.Specs.Warranty = "1 Year"
	}
	if product.Stock < 0 {
		return fail(c, http.StatusBadRequest, "Stock cannot be negative", "")
	}

	if err := GetDB(c).Create(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error creating product", err.Error())
	}

	auditLog(c, "product_create", product.Name)
	GetApp(c).Bus().Publish(catalog.TopicCatalogChanged)
	return created(c, "Product created successfully", product)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", "")
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product", err.Error())
	}

	if name := strings.TrimSpace(payload.Name); name != "" && name != product.Name {
		product.Name = name
		product.Slug = catalog.Slugify(name)
	}
	if v := looseScalar(payload.Category); v != nil {
		product.CategoryId = cast.ToInt64(v)
	}
	if v := looseScalar(payload.Price); v != nil {
		price := cast.ToFloat64(v)
		if price < 0 {
			return fail(c, http.StatusBadRequest, "Price cannot be negative", "")
		}
		product.Price = price
	}
	if len(payload.DiscountPrice) > 0 {
		if v := looseScalar(payload.DiscountPrice); v == nil {
			product.DiscountPrice = nil
		} else {
			dp := cast.ToFloat64(v)
			if dp < 0 {
				return fail(c, http.StatusBadRequest, "Discount price cannot be negative", "")
			}
			product.DiscountPrice = &dp
		}
	}
	if payload.Images != nil {
		product.Images = payload.Images
	}
	if payload.Description != "" {
		product.Description = payload.Description
	}
	if payload.ShortDescription != nil {
		product.ShortDescription = *payload.ShortDescription
	}
	if features, err := looseStringList(payload.Features); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid features field", err.Error())
	} else if features != nil {
		product.Features = features
	}
	if specs, err := looseSpecs(payload.Specs); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid specs field", err.Error())
	} else if specs != nil {
		product.Specs = *specs
	}
	if v := looseScalar(payload.Stock); v != nil {
		stock := cast.ToInt(v)
		if stock < 0 {
			return fail(c, http.StatusBadRequest, "Stock cannot be negative", "")
		}
		product.Stock = stock
	}
	if payload.Sku != nil {
		product.Sku = payload.Sku
	}
	if v := looseScalar(payload.IsActive); v != nil {
		product.IsActive = cast.ToBool(v)
	}
	if v := looseScalar(payload.IsFeatured); v != nil {
		product.IsFeatured = cast.ToBool(v)
	}
	if tags, err := looseStringList(payload.Tags); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid tags field", err.Error())
	} else if tags != nil {
		product.Tags = tags
	}
	product.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error updating product", err.Error())
	}

	auditLog(c, "product_update", product.Name)
	GetApp(c).Bus().Publish(catalog.TopicCatalogChanged)
	return okMessage(c, "Product updated successfully", product)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID", "")
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching product", err.Error())
	}

	// release hosted images before dropping the row
	for _, img := range product.Images {
		if err := mediaDeleter.Delete(img.PublicId); err != nil {
			zap.L().Warn("failed to delete product image",
				zap.String("public_id", img.PublicId), zap.Error(err))
		}
	}

	if err := GetDB(c).Delete(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error deleting product", err.Error())
	}

	auditLog(c, "product_delete", product.Name)
	GetApp(c).Bus().Publish(catalog.TopicCatalogChanged)
	return okMessage(c, "Product deleted successfully", nil)
}

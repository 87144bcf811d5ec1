package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/app"
	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/webserver"
	"github.com/voltshop/storefront/pkg/common"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Token      string      `json:"token,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// GetApp pulls the application context off the request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextKeyApp).(app.AppContext)
}

// GetDB pulls the request database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextKeyDB).(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func okMessage(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string, errMsg string) error {
	return c.JSON(status, Response{Success: false, Message: message, Error: errMsg})
}

func paged(c echo.Context, data interface{}, total int64, page, limit int) error {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func parsePagination(c echo.Context) (page int, limit int) {
	page = 1
	limit = 10
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}
	return page, limit
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// auditLog records an admin mutation for the audit trail. Best effort.
func auditLog(c echo.Context, action, desc string) {
	userName := ""
	if claims := currentClaims(c); claims != nil {
		userName = claims.Email
	}
	GetDB(c).Create(&domain.AuditLog{
		ID:       common.UUIDint64(),
		UserName: userName,
		UserIp:   c.RealIP(),
		Action:   action,
		Desc:     desc,
		OptTime:  time.Now(),
	})
}

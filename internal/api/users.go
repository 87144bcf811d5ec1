package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/webserver"
)

func registerUserRoutes() {
	webserver.PubPOST("/users/login", loginUser)
	webserver.ApiGET("/users", listUsers)
	webserver.ApiGET("/users/:id", getUser)
	webserver.ApiDELETE("/users/:id", deleteUser)
}

// Claims carried in admin tokens.
type Claims struct {
	Email string `json:"email"`
	Level string `json:"level"`
	jwt.RegisteredClaims
}

// currentClaims extracts the verified claims set by the JWT middleware, or
// nil on public routes.
func currentClaims(c echo.Context) *Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	claims := &Claims{}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mapClaims["level"].(string); ok {
		claims.Level = v
	}
	return claims
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse login request", err.Error())
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required", "")
	}

	var user domain.User
	if err := GetDB(c).Where("email = ?", payload.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "User not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error logging in user", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid password", "")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"level": user.Level,
		"exp":   time.Now().Add(72 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(GetApp(c).Config().Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error logging in user", err.Error())
	}

	GetDB(c).Model(&domain.User{}).Where("id = ?", user.ID).
		UpdateColumn("last_login", time.Now())

	return c.JSON(http.StatusOK, Response{Success: true, Data: user, Token: signed})
}

func listUsers(c echo.Context) error {
	var users []domain.User
	if err := GetDB(c).Order("created_at DESC").Find(&users).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching users", err.Error())
	}
	return ok(c, users)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID", "")
	}
	var user domain.User
	if err := GetDB(c).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "User not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error fetching user", err.Error())
	}
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user ID", "")
	}
	var user domain.User
	if err := GetDB(c).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "User not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error deleting user", err.Error())
	}
	if err := GetDB(c).Delete(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error deleting user", err.Error())
	}
	auditLog(c, "user_delete", user.Email)
	return okMessage(c, "User deleted successfully", nil)
}

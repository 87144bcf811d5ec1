package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/voltshop/storefront/internal/mailer"
	"github.com/voltshop/storefront/internal/webserver"
)

func registerContactRoutes() {
	webserver.PubPOST("/contact", sendContactMail)
}

var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func sendContactMail(c echo.Context) error {
	var payload contactPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request", err.Error())
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Subject = strings.TrimSpace(payload.Subject)
	if len(payload.Name) < 2 || len(payload.Name) > 100 {
		return fail(c, http.StatusBadRequest, "Name must be between 2 and 100 characters", "")
	}
	if !strings.Contains(payload.Email, "@") {
		return fail(c, http.StatusBadRequest, "Please provide a valid email address", "")
	}
	if payload.Phone != "" && !phonePattern.MatchString(payload.Phone) {
		return fail(c, http.StatusBadRequest, "Please provide a valid 10-digit Indian phone number", "")
	}
	if payload.Subject == "" || len(payload.Subject) > 200 {
		return fail(c, http.StatusBadRequest, "Subject is required and must be less than 200 characters", "")
	}

	err := mailSender.SendContact(mailer.ContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Subject: payload.Subject,
		Body:    payload.Message,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error sending message", err.Error())
	}
	return okMessage(c, "Message sent successfully", nil)
}

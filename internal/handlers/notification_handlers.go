package handlers

import (
	"net/http"

	"refstaff/internal/middleware"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers handles notification-related HTTP requests
type NotificationHandlers struct {
	notificationSvc services.NotificationService
}

// NewNotificationHandlers creates a new notification handlers instance
func NewNotificationHandlers(notificationSvc services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{
		notificationSvc: notificationSvc,
	}
}

// NotifyCompany emails the verified admins of the caller's company about an event.
// @Summary Notify company admins
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body models.Notification true "Event type and data"
// @Param X-Auth-Token header string true "Session token"
// @Success 200 {object} services.NotifyResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security AuthToken
// @Router /notify-company [post]
func (h *NotificationHandlers) NotifyCompany(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}

	var req models.Notification
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.notificationSvc.NotifyCompany(c.Request().Context(), p.CompanyID, req)
	if err != nil {
		return serviceError(c, err)
	}
	if result.Recipients == 0 {
		return c.JSON(http.StatusOK, MessageResponse{Message: "No verified admins to notify"})
	}
	return c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"strings"

	"refstaff/internal/middleware"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

// PayoutHandlers serves /payouts.
type PayoutHandlers struct {
	payoutService services.PayoutService
}

func NewPayoutHandlers(payoutService services.PayoutService) *PayoutHandlers {
	return &PayoutHandlers{payoutService: payoutService}
}

// List returns the company's requests to admins and the caller's own requests otherwise.
// @Summary List payout requests
// @Tags payouts
// @Produce json
// @Param status query string false "Filter by status"
// @Param X-Auth-Token header string true "Session token"
// @Success 200 {array} models.PayoutRequest
// @Failure 401 {object} ErrorResponse
// @Security AuthToken
// @Router /payouts [get]
func (h *PayoutHandlers) List(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	requests, err := h.payoutService.List(c.Request().Context(), p, strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Create files a withdrawal request against the caller's available balance.
// @Summary Request a payout
// @Tags payouts
// @Accept json
// @Produce json
// @Param request body services.CreatePayoutRequest true "Amount and payment method"
// @Param X-Auth-Token header string true "Session token"
// @Success 201 {object} models.PayoutRequest
// @Failure 400 {object} ErrorResponse
// @Security AuthToken
// @Router /payouts [post]
func (h *PayoutHandlers) Create(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req services.CreatePayoutRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	pr, err := h.payoutService.Create(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, pr)
}

// Review lets an admin approve, reject or pay out a request.
// @Summary Review a payout request
// @Tags payouts
// @Accept json
// @Produce json
// @Param request body services.ReviewPayoutRequest true "Decision"
// @Param X-Auth-Token header string true "Session token"
// @Success 200 {object} models.PayoutRequest
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security AuthToken
// @Router /payouts [put]
func (h *PayoutHandlers) Review(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req services.ReviewPayoutRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	pr, err := h.payoutService.Review(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, pr)
}

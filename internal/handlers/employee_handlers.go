package handlers

import (
	"net/http"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

// UpdateProfileRequest edits the caller's profile, or with user_id another
// employee's profile (admins only).
type UpdateProfileRequest struct {
	UserID int64 `json:"user_id"`
	models.ProfileUpdate
}

func (h *APIHandlers) listEmployees(c echo.Context, p *models.Principal) error {
	employees, err := h.employeeService.List(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *APIHandlers) registerEmployee(c echo.Context, _ *models.Principal) error {
	var req services.RegisterEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	return h.authHandlers.RegisterEmployee(c, &req)
}

func (h *APIHandlers) updateProfile(c echo.Context, p *models.Principal) error {
	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.employeeService.UpdateProfile(c.Request().Context(), p, req.UserID, req.ProfileUpdate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, user.Profile())
}

func (h *APIHandlers) updateRole(c echo.Context, p *models.Principal) error {
	var req services.UpdateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.employeeService.UpdateRole(c.Request().Context(), p, &req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Role updated"})
}

func (h *APIHandlers) deleteEmployee(c echo.Context, p *models.Principal) error {
	userID, err := common.QueryInt64(c, "user_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if userID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if err := h.employeeService.Delete(c.Request().Context(), p, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Employee deleted"})
}

func (h *APIHandlers) getCompany(c echo.Context, p *models.Principal) error {
	company, err := h.companyService.Get(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *APIHandlers) updateCompany(c echo.Context, p *models.Principal) error {
	var upd models.CompanyUpdate
	if err := bindJSON(c, &upd); err != nil {
		return err
	}
	company, err := h.companyService.Update(c.Request().Context(), p, upd)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *APIHandlers) stats(c echo.Context, p *models.Principal) error {
	stats, err := h.companyService.Stats(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *APIHandlers) wallet(c echo.Context, p *models.Principal) error {
	data, err := h.walletService.Get(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

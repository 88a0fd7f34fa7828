package handlers

import (
	"net/http"
	"strings"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

// UpdateVacancyRequest identifies the vacancy and carries the fields to change.
type UpdateVacancyRequest struct {
	ID int64 `json:"id"`
	models.VacancyUpdate
}

func (h *APIHandlers) listVacancies(c echo.Context, p *models.Principal) error {
	vacancies, err := h.vacancyService.List(c.Request().Context(), p, strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, vacancies)
}

func (h *APIHandlers) getPublicVacancy(c echo.Context, _ *models.Principal) error {
	id, err := common.QueryInt64(c, "vacancy_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	vacancy, err := h.vacancyService.GetPublic(c.Request().Context(), id, strings.TrimSpace(c.QueryParam("referral_token")))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, vacancy)
}

func (h *APIHandlers) createVacancy(c echo.Context, p *models.Principal) error {
	var req services.CreateVacancyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	vacancy, err := h.vacancyService.Create(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, vacancy)
}

func (h *APIHandlers) updateVacancy(c echo.Context, p *models.Principal) error {
	var req UpdateVacancyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	vacancy, err := h.vacancyService.Update(c.Request().Context(), p, req.ID, req.VacancyUpdate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, vacancy)
}

func (h *APIHandlers) listRecommendations(c echo.Context, p *models.Principal) error {
	userID, err := common.QueryInt64(c, "user_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filter := models.RecommendationFilter{
		Status:        strings.TrimSpace(c.QueryParam("status")),
		RecommendedBy: userID,
	}
	recs, err := h.recommendationService.List(c.Request().Context(), p, filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *APIHandlers) createRecommendation(c echo.Context, p *models.Principal) error {
	var req services.CreateRecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	rec, err := h.recommendationService.Create(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *APIHandlers) updateRecommendationStatus(c echo.Context, p *models.Principal) error {
	var req services.RecommendationStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	out, err := h.recommendationService.UpdateStatus(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out.Recommendation)
}

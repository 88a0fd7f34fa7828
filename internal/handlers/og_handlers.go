package handlers

import (
	"net/http"

	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	ogImageCacheControl = "public, max-age=86400"
	ogPageCacheControl  = "public, max-age=300"
)

// OGHandlers serves link previews for shared vacancies.
type OGHandlers struct {
	ogService services.OGService
}

func NewOGHandlers(ogService services.OGService) *OGHandlers {
	return &OGHandlers{ogService: ogService}
}

// Image renders the 1200x630 share card.
// @Summary Open Graph share image
// @Tags og
// @Produce png
// @Param title query string false "Vacancy title"
// @Param department query string false "Department"
// @Param salary query string false "Salary"
// @Success 200 {file} binary
// @Router /og-image [get]
func (h *OGHandlers) Image(c echo.Context) error {
	card := services.OGCard{
		Title:      c.QueryParam("title"),
		Department: c.QueryParam("department"),
		Salary:     c.QueryParam("salary"),
	}
	data, err := h.ogService.Image(c.Request().Context(), card)
	if err != nil {
		return serviceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, ogImageCacheControl)
	return c.Blob(http.StatusOK, "image/png", data)
}

// Proxy redirects browsers to the app and gives crawlers a page with Open Graph tags.
// @Summary Share link for a vacancy or referral
// @Tags og
// @Produce html
// @Param type query string true "vacancy or referral"
// @Param id query string true "Vacancy id or referral token"
// @Param ref query string false "Referrer"
// @Success 200 {string} string "Meta page for crawlers"
// @Success 302 {string} string "Redirect for browsers"
// @Failure 400 {object} ErrorResponse
// @Router /og-proxy [get]
func (h *OGHandlers) Proxy(c echo.Context) error {
	page, err := h.ogService.SharePage(c.Request().Context(), &services.SharePageRequest{
		Type:      c.QueryParam("type"),
		ID:        c.QueryParam("id"),
		Ref:       c.QueryParam("ref"),
		UserAgent: c.Request().UserAgent(),
		ImageBase: c.Scheme() + "://" + c.Request().Host,
	})
	if err != nil {
		return serviceError(c, err)
	}
	if !page.Bot {
		return c.Redirect(http.StatusFound, page.RedirectURL)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, ogPageCacheControl)
	return c.HTML(http.StatusOK, page.HTML)
}

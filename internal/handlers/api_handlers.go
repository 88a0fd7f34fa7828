package handlers

import (
	"net/http"

	"refstaff/internal/middleware"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

type apiHandlerFunc func(c echo.Context, p *models.Principal) error

type apiRoute struct {
	public bool
	handle apiHandlerFunc
}

// APIServices groups the services behind the /api resource dispatcher.
type APIServices struct {
	Vacancies       services.VacancyService
	Recommendations services.RecommendationService
	Employees       services.EmployeeService
	Companies       services.CompanyService
	Wallets         services.WalletService
	Chats           services.ChatService
}

// APIHandlers serves /api?resource=&action=.
type APIHandlers struct {
	vacancyService        services.VacancyService
	recommendationService services.RecommendationService
	employeeService       services.EmployeeService
	companyService        services.CompanyService
	walletService         services.WalletService
	chatService           services.ChatService
	authHandlers          *AuthHandlers

	routes map[string]apiRoute
}

// NewAPIHandlers creates the resource dispatcher. Self registration through
// the employees resource is delegated to authHandlers.
func NewAPIHandlers(svc APIServices, authHandlers *AuthHandlers) *APIHandlers {
	h := &APIHandlers{
		vacancyService:        svc.Vacancies,
		recommendationService: svc.Recommendations,
		employeeService:       svc.Employees,
		companyService:        svc.Companies,
		walletService:         svc.Wallets,
		chatService:           svc.Chats,
		authHandlers:          authHandlers,
	}
	h.routes = make(map[string]apiRoute)
	h.private(http.MethodGet, "vacancies", "", h.listVacancies)
	h.public(http.MethodGet, "vacancies", "public", h.getPublicVacancy)
	h.private(http.MethodPost, "vacancies", "", h.createVacancy)
	h.private(http.MethodPut, "vacancies", "", h.updateVacancy)
	h.private(http.MethodGet, "recommendations", "", h.listRecommendations)
	h.private(http.MethodPost, "recommendations", "", h.createRecommendation)
	h.private(http.MethodPut, "recommendations", "status", h.updateRecommendationStatus)
	h.private(http.MethodGet, "employees", "", h.listEmployees)
	h.public(http.MethodPost, "employees", "register", h.registerEmployee)
	h.private(http.MethodPut, "employees", "profile", h.updateProfile)
	h.private(http.MethodPut, "employees", "role", h.updateRole)
	h.private(http.MethodDelete, "employees", "", h.deleteEmployee)
	h.private(http.MethodGet, "company", "", h.getCompany)
	h.private(http.MethodPut, "company", "", h.updateCompany)
	h.private(http.MethodGet, "stats", "", h.stats)
	h.private(http.MethodGet, "wallet", "", h.wallet)
	h.private(http.MethodGet, "chats", "", h.listChats)
	h.private(http.MethodPost, "chats", "", h.openChat)
	h.private(http.MethodGet, "messages", "", h.listMessages)
	h.private(http.MethodPost, "messages", "", h.sendMessage)
	h.private(http.MethodPut, "messages", "read", h.markRead)
	h.private(http.MethodGet, "employee_chats", "", h.listPeerChats)
	h.private(http.MethodPost, "employee_chats", "", h.openPeerChat)
	h.private(http.MethodGet, "employee_messages", "", h.listPeerMessages)
	h.private(http.MethodPost, "employee_messages", "", h.sendPeerMessage)
	h.private(http.MethodPut, "employee_messages", "read", h.markPeerRead)
	return h
}

func (h *APIHandlers) private(method, resource, action string, fn apiHandlerFunc) {
	h.routes[routeKey(method, resource, action)] = apiRoute{handle: fn}
}

func (h *APIHandlers) public(method, resource, action string, fn apiHandlerFunc) {
	h.routes[routeKey(method, resource, action)] = apiRoute{public: true, handle: fn}
}

func routeKey(method, resource, action string) string {
	return method + " " + resource + " " + action
}

// Dispatch routes a request by method, resource and action.
// @Summary Company resources (vacancies, recommendations, employees, company, stats, wallet, chats)
// @Tags api
// @Accept json
// @Produce json
// @Param resource query string true "Resource name"
// @Param action query string false "Action within the resource"
// @Param X-Auth-Token header string false "Session token"
// @Success 200 {object} interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security AuthToken
// @Router /api [get]
// @Router /api [post]
// @Router /api [put]
// @Router /api [delete]
func (h *APIHandlers) Dispatch(c echo.Context) error {
	route, ok := h.routes[routeKey(c.Request().Method, c.QueryParam("resource"), c.QueryParam("action"))]
	if !ok {
		return errEndpointNotFound
	}
	if route.public {
		p, _ := middleware.RequirePrincipal(c)
		return route.handle(c, p)
	}
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	return route.handle(c, p)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVacancyService struct {
	mock.Mock
}

func (m *MockVacancyService) List(ctx context.Context, p *models.Principal, status string) ([]*models.Vacancy, error) {
	args := m.Called(ctx, p, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vacancy), args.Error(1)
}

func (m *MockVacancyService) GetPublic(ctx context.Context, vacancyID int64, referralToken string) (*models.Vacancy, error) {
	args := m.Called(ctx, vacancyID, referralToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

func (m *MockVacancyService) Create(ctx context.Context, p *models.Principal, req *services.CreateVacancyRequest) (*models.Vacancy, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

func (m *MockVacancyService) Update(ctx context.Context, p *models.Principal, id int64, upd models.VacancyUpdate) (*models.Vacancy, error) {
	args := m.Called(ctx, p, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) List(ctx context.Context, p *models.Principal, filter models.RecommendationFilter) ([]*models.Recommendation, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) Create(ctx context.Context, p *models.Principal, req *services.CreateRecommendationRequest) (*models.Recommendation, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) UpdateStatus(ctx context.Context, p *models.Principal, req *services.RecommendationStatusRequest) (*models.AcceptOutcome, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcceptOutcome), args.Error(1)
}

var hrPrincipal = &models.Principal{UserID: 2, CompanyID: 1, Email: "hr@acme.ru", Role: models.RoleAdmin}

func newAPIServer(vacancies services.VacancyService, recs services.RecommendationService) *echo.Echo {
	api := NewAPIHandlers(APIServices{Vacancies: vacancies, Recommendations: recs}, nil)
	return newTestServer(&Handlers{API: api}, stubAuthenticator{"hr-token": hrPrincipal})
}

var hrHeaders = map[string]string{"X-Auth-Token": "hr-token"}

func TestAPI_UnknownEndpoint(t *testing.T) {
	e := newAPIServer(&MockVacancyService{}, &MockRecommendationService{})

	for _, target := range []string{"/api?resource=planets", "/api?resource=vacancies&action=archive", "/api"} {
		rec := doRequest(e, http.MethodGet, target, "", hrHeaders)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Endpoint not found", errorMessage(t, rec))
	}

	rec := doRequest(e, http.MethodDelete, "/api?resource=vacancies", "", hrHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_PrivateResourceNeedsToken(t *testing.T) {
	e := newAPIServer(&MockVacancyService{}, &MockRecommendationService{})

	rec := doRequest(e, http.MethodGet, "/api?resource=vacancies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, rec))

	rec = doRequest(e, http.MethodGet, "/api?resource=vacancies", "", map[string]string{"X-Auth-Token": "stolen"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, rec))
}

func TestAPI_ListVacancies(t *testing.T) {
	vacancies := &MockVacancyService{}
	vacancies.On("List", mock.Anything, hrPrincipal, "all").
		Return([]*models.Vacancy{{ID: 1, Title: "Go developer"}, {ID: 2, Title: "QA"}}, nil)
	e := newAPIServer(vacancies, &MockRecommendationService{})

	rec := doRequest(e, http.MethodGet, "/api?resource=vacancies&status=all", "", hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"title":"Go developer"`)
	vacancies.AssertExpectations(t)
}

func TestAPI_PublicVacancyWithoutToken(t *testing.T) {
	vacancies := &MockVacancyService{}
	vacancies.On("GetPublic", mock.Anything, int64(0), "ref123").Return(&models.Vacancy{ID: 7, Title: "Designer"}, nil)
	vacancies.On("GetPublic", mock.Anything, int64(9), "").Return(nil, &services.Error{Kind: services.ErrNotFound, Message: "Vacancy not found"})
	e := newAPIServer(vacancies, &MockRecommendationService{})

	rec := doRequest(e, http.MethodGet, "/api?resource=vacancies&action=public&referral_token=ref123", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(7), decodeBody(t, rec)["id"])

	rec = doRequest(e, http.MethodGet, "/api?resource=vacancies&action=public&vacancy_id=9", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Vacancy not found", errorMessage(t, rec))

	rec = doRequest(e, http.MethodGet, "/api?resource=vacancies&action=public&vacancy_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "vacancy_id must be a positive integer", errorMessage(t, rec))
}

func TestAPI_CreateVacancy(t *testing.T) {
	vacancies := &MockVacancyService{}
	vacancies.On("Create", mock.Anything, hrPrincipal, mock.MatchedBy(func(r *services.CreateVacancyRequest) bool {
		return r.Title == "Go developer" && r.RewardAmount != nil && *r.RewardAmount == 50000
	})).Return(&models.Vacancy{ID: 3, Title: "Go developer", RewardAmount: 50000}, nil)
	e := newAPIServer(vacancies, &MockRecommendationService{})

	rec := doRequest(e, http.MethodPost, "/api?resource=vacancies", `{"title":"Go developer","reward_amount":50000}`, hrHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(3), decodeBody(t, rec)["id"])
}

func TestAPI_ServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{&services.Error{Kind: services.ErrForbidden, Message: "Only HR managers can create vacancies"}, http.StatusForbidden, "Only HR managers can create vacancies"},
		{&services.Error{Kind: services.ErrValidation, Message: "Title is required"}, http.StatusBadRequest, "Title is required"},
		{&services.Error{Kind: services.ErrConflict, Message: "already"}, http.StatusConflict, "already"},
		{&services.Error{Kind: services.ErrNotConfigured, Message: "Email not configured"}, http.StatusInternalServerError, "Email not configured"},
		{&services.Error{Kind: services.ErrUpstream, Message: "Failed to send email"}, http.StatusInternalServerError, "Failed to send email"},
		{errors.New("pq: connection refused to 10.0.0.5"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		vacancies := &MockVacancyService{}
		vacancies.On("Create", mock.Anything, hrPrincipal, mock.Anything).Return(nil, tc.err)
		e := newAPIServer(vacancies, &MockRecommendationService{})

		rec := doRequest(e, http.MethodPost, "/api?resource=vacancies", `{"title":"X"}`, hrHeaders)
		assert.Equal(t, tc.status, rec.Code, tc.msg)
		assert.Equal(t, tc.msg, errorMessage(t, rec))
	}
}

func TestAPI_UpdateVacancyNeedsID(t *testing.T) {
	vacancies := &MockVacancyService{}
	closed := models.VacancyClosed
	vacancies.On("Update", mock.Anything, hrPrincipal, int64(4), models.VacancyUpdate{Status: &closed}).
		Return(&models.Vacancy{ID: 4, Status: closed}, nil)
	e := newAPIServer(vacancies, &MockRecommendationService{})

	rec := doRequest(e, http.MethodPut, "/api?resource=vacancies", `{"status":"closed"}`, hrHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id is required", errorMessage(t, rec))

	rec = doRequest(e, http.MethodPut, "/api?resource=vacancies", `{"id":4,"status":"closed"}`, hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "closed", decodeBody(t, rec)["status"])
}

func TestAPI_RecommendationStatus(t *testing.T) {
	recs := &MockRecommendationService{}
	recs.On("UpdateStatus", mock.Anything, hrPrincipal, &services.RecommendationStatusRequest{ID: 5, Status: "accepted"}).
		Return(&models.AcceptOutcome{Recommendation: &models.Recommendation{ID: 5, Status: "accepted"}, PayoutID: 11}, nil)
	recs.On("List", mock.Anything, hrPrincipal, models.RecommendationFilter{Status: "pending", RecommendedBy: 10}).
		Return([]*models.Recommendation{{ID: 1}}, nil)
	e := newAPIServer(&MockVacancyService{}, recs)

	rec := doRequest(e, http.MethodPut, "/api?resource=recommendations&action=status", `{"id":5,"status":"accepted"}`, hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "accepted", decodeBody(t, rec)["status"])

	rec = doRequest(e, http.MethodGet, "/api?resource=recommendations&status=pending&user_id=10", "", hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPut, "/api?resource=recommendations", `{"id":5,"status":"accepted"}`, hrHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	recs.AssertExpectations(t)
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) List(ctx context.Context, p *models.Principal) ([]*models.EmployeeCard, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmployeeCard), args.Error(1)
}

func (m *MockEmployeeService) UpdateProfile(ctx context.Context, p *models.Principal, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, p, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockEmployeeService) UpdateRole(ctx context.Context, p *models.Principal, req *services.UpdateRoleRequest) error {
	return m.Called(ctx, p, req).Error(0)
}

func (m *MockEmployeeService) Delete(ctx context.Context, p *models.Principal, userID int64) error {
	return m.Called(ctx, p, userID).Error(0)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ListChats(ctx context.Context, p *models.Principal) ([]*models.Chat, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Chat), args.Error(1)
}

func (m *MockChatService) OpenChat(ctx context.Context, p *models.Principal, employeeID int64) (*models.Chat, error) {
	args := m.Called(ctx, p, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, p, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, p *models.Principal, req *services.SendMessageRequest) (*models.ChatMessage, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) MarkRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error) {
	args := m.Called(ctx, p, chatID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatService) ListPeerChats(ctx context.Context, p *models.Principal) ([]*models.EmployeeChat, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmployeeChat), args.Error(1)
}

func (m *MockChatService) OpenPeerChat(ctx context.Context, p *models.Principal, peerID int64) (*models.EmployeeChat, error) {
	args := m.Called(ctx, p, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeChat), args.Error(1)
}

func (m *MockChatService) ListPeerMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, p, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) SendPeerMessage(ctx context.Context, p *models.Principal, req *services.SendMessageRequest) (*models.ChatMessage, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) MarkPeerRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error) {
	args := m.Called(ctx, p, chatID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPayoutService struct {
	mock.Mock
}

func (m *MockPayoutService) List(ctx context.Context, p *models.Principal, status string) ([]*models.PayoutRequest, error) {
	args := m.Called(ctx, p, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PayoutRequest), args.Error(1)
}

func (m *MockPayoutService) Create(ctx context.Context, p *models.Principal, req *services.CreatePayoutRequest) (*models.PayoutRequest, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

func (m *MockPayoutService) Review(ctx context.Context, p *models.Principal, req *services.ReviewPayoutRequest) (*models.PayoutRequest, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

var resourceTokens = stubAuthenticator{"hr-token": hrPrincipal, "emp": employeePrincipal}

func newResourceServer(svc APIServices) *echo.Echo {
	return newTestServer(&Handlers{API: NewAPIHandlers(svc, nil)}, resourceTokens)
}

func TestAPI_Employees(t *testing.T) {
	employees := &MockEmployeeService{}
	employees.On("List", mock.Anything, hrPrincipal).Return([]*models.EmployeeCard{{ID: 10, FirstName: "Ivan"}}, nil)
	employees.On("UpdateRole", mock.Anything, hrPrincipal, &services.UpdateRoleRequest{UserID: 10, IsHRManager: true}).Return(nil)
	employees.On("Delete", mock.Anything, hrPrincipal, int64(10)).Return(nil)
	employees.On("Delete", mock.Anything, employeePrincipal, int64(2)).
		Return(&services.Error{Kind: services.ErrForbidden, Message: "Only admins can delete employees"})
	e := newResourceServer(APIServices{Employees: employees})

	rec := doRequest(e, http.MethodGet, "/api?resource=employees", "", hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"first_name":"Ivan"`)

	rec = doRequest(e, http.MethodPut, "/api?resource=employees&action=role", `{"user_id":10,"is_hr_manager":true}`, hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Role updated", decodeBody(t, rec)["message"])

	rec = doRequest(e, http.MethodDelete, "/api?resource=employees", "", hrHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_id is required", errorMessage(t, rec))

	rec = doRequest(e, http.MethodDelete, "/api?resource=employees&user_id=10", "", hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Employee deleted", decodeBody(t, rec)["message"])

	rec = doRequest(e, http.MethodDelete, "/api?resource=employees&user_id=2", "", map[string]string{"X-Auth-Token": "emp"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	employees.AssertExpectations(t)
}

func TestAPI_Chats(t *testing.T) {
	chats := &MockChatService{}
	chats.On("OpenChat", mock.Anything, hrPrincipal, int64(10)).Return(&models.Chat{ID: 3, CompanyID: 1, EmployeeID: 10}, nil)
	chats.On("SendMessage", mock.Anything, hrPrincipal, &services.SendMessageRequest{ChatID: 3, Message: "Hello"}).
		Return(&models.ChatMessage{ID: 8, ChatID: 3, SenderID: 2, Message: "Hello"}, nil)
	chats.On("ListMessages", mock.Anything, employeePrincipal, int64(3)).Return([]*models.ChatMessage{{ID: 8, Message: "Hello"}}, nil)
	chats.On("MarkRead", mock.Anything, employeePrincipal, int64(3)).Return(int64(1), nil)
	chats.On("MarkPeerRead", mock.Anything, employeePrincipal, int64(4)).Return(int64(2), nil)
	e := newResourceServer(APIServices{Chats: chats})
	empHeaders := map[string]string{"X-Auth-Token": "emp"}

	rec := doRequest(e, http.MethodPost, "/api?resource=chats", `{"employee_id":10}`, hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(3), decodeBody(t, rec)["id"])

	rec = doRequest(e, http.MethodPost, "/api?resource=messages", `{"chat_id":3,"message":"Hello"}`, hrHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api?resource=messages&chat_id=3", "", empHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"message":"Hello"`)

	rec = doRequest(e, http.MethodGet, "/api?resource=messages&chat_id=x", "", empHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "chat_id must be a positive integer", errorMessage(t, rec))

	rec = doRequest(e, http.MethodPut, "/api?resource=messages&action=read", `{"chat_id":3}`, empHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = doRequest(e, http.MethodPut, "/api?resource=employee_messages&action=read&chat_id=4", "", empHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":2}`, rec.Body.String())
	chats.AssertExpectations(t)
}

func TestPayouts(t *testing.T) {
	payouts := &MockPayoutService{}
	payouts.On("List", mock.Anything, hrPrincipal, "pending").Return([]*models.PayoutRequest{{ID: 1, Amount: 5000}}, nil)
	payouts.On("Create", mock.Anything, employeePrincipal, mock.MatchedBy(func(r *services.CreatePayoutRequest) bool {
		return r.Amount == 5000 && r.PaymentMethod == "card"
	})).Return(&models.PayoutRequest{ID: 2, Amount: 5000, Status: models.PayoutRequestPending}, nil)
	payouts.On("Review", mock.Anything, employeePrincipal, mock.Anything).
		Return(nil, &services.Error{Kind: services.ErrForbidden, Message: "Only admins can review payouts"})
	e := newTestServer(&Handlers{Payouts: NewPayoutHandlers(payouts)}, resourceTokens)
	empHeaders := map[string]string{"X-Auth-Token": "emp"}

	rec := doRequest(e, http.MethodGet, "/payouts?status=pending", "", hrHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/payouts", `{"amount":5000,"payment_method":"card","payment_details":{"last4":"1234"}}`, empHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", decodeBody(t, rec)["status"])

	rec = doRequest(e, http.MethodPut, "/payouts", `{"request_id":1,"status":"approved"}`, empHeaders)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only admins can review payouts", errorMessage(t, rec))

	rec = doRequest(e, http.MethodPost, "/payouts", `{"amount":5000}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	payouts.AssertExpectations(t)
}

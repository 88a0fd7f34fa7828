package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"refstaff/internal/middleware"
	"refstaff/internal/models"
	"refstaff/internal/repositories"
	"refstaff/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// memUserRepo keeps users in memory. Methods the tests never reach panic
// through the nil embedded interface.
type memUserRepo struct {
	repositories.UserRepository

	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetInCompany(ctx context.Context, companyID, id int64) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil || u.CompanyID != companyID {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

// nopNotifier accepts every notification without sending anything.
type nopNotifier struct{}

func (nopNotifier) NotifyCompany(context.Context, int64, models.Notification) (*services.NotifyResult, error) {
	return &services.NotifyResult{}, nil
}
func (nopNotifier) NotifyCompanyAsync(int64, models.Notification) {}
func (nopNotifier) SendVerification(context.Context, *services.VerificationEmailRequest) error {
	return nil
}
func (nopNotifier) SendPasswordReset(context.Context, string, string) error { return nil }

// stubAuthenticator accepts the tokens it knows.
type stubAuthenticator map[string]*models.Principal

func (s stubAuthenticator) Authenticate(token string) (*models.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, services.ErrInvalidToken
}

func newTestServer(h *Handlers, auth middleware.Authenticator) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.CORS())
	RegisterRoutes(e, h, auth)
	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decodeBody(t, rec)["error"].(string)
	return msg
}

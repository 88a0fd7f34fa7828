package services

import (
	"errors"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every reason a session token is rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session token payload. Field order fixes the encoded payload
// order: user_id, email, company_id, role, exp.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Create(userID int64, email string, companyID int64, role string) (string, error)
	Verify(token string) (*Claims, error)
	Authenticate(token string) (*models.Principal, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService signs HS256 tokens with secret. A nil clock means time.Now.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &tokenService{secret: []byte(secret), ttl: ttl, now: now}
}

func (s *tokenService) Create(userID int64, email string, companyID int64, role string) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		CompanyID: companyID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify never panics; any malformed, tampered, expired or non-HS256 token
// yields ErrInvalidToken.
func (s *tokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) Authenticate(token string) (*models.Principal, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

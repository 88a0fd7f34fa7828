package services

import (
	"context"
	"errors"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

// loadCaller re-reads the principal's user so role checks see current flags,
// not the ones frozen into the token.
func loadCaller(ctx context.Context, users repositories.UserRepository, p *models.Principal) (*models.User, error) {
	if p == nil {
		return nil, unauthorizedError("Authentication required")
	}
	u, err := users.GetInCompany(ctx, p.CompanyID, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, unauthorizedError("User not found")
		}
		return nil, err
	}
	return u, nil
}

func requireAdmin(ctx context.Context, users repositories.UserRepository, p *models.Principal) (*models.User, error) {
	u, err := loadCaller(ctx, users, p)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin && u.Role != models.RoleAdmin {
		return nil, forbiddenError("Admin access required")
	}
	return u, nil
}

func requireStaff(ctx context.Context, users repositories.UserRepository, p *models.Principal) (*models.User, error) {
	u, err := loadCaller(ctx, users, p)
	if err != nil {
		return nil, err
	}
	if !u.IsStaff() {
		return nil, forbiddenError("Access denied")
	}
	return u, nil
}

package models

import (
	"time"
)

const (
	SubscriptionTrial   = "trial"
	SubscriptionExpired = "expired"
)

type Company struct {
	ID                    int64      `json:"id" db:"id"`
	Name                  string     `json:"name" db:"name"`
	EmployeeCount         int        `json:"employee_count" db:"employee_count"`
	InviteToken           string     `json:"invite_token" db:"invite_token"`
	SubscriptionTier      string     `json:"subscription_tier" db:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at" db:"subscription_expires_at"`
	INN                   *string    `json:"inn" db:"inn"`
	LogoURL               *string    `json:"logo_url" db:"logo_url"`
	Description           *string    `json:"description" db:"description"`
	Website               *string    `json:"website" db:"website"`
	Industry              *string    `json:"industry" db:"industry"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// CompanyRef is the public view of a company resolved by invite token.
type CompanyRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	InviteToken string `json:"invite_token"`
}

type CompanyStats struct {
	TotalRecommendations int     `json:"total_recommendations"`
	AcceptedCandidates   int     `json:"accepted_candidates"`
	TotalBonuses         float64 `json:"total_bonuses"`
	ActiveVacancies      int     `json:"active_vacancies"`
	TotalEmployees       int     `json:"total_employees"`
}

// CompanyUpdate carries the admin-editable company fields. Nil fields are kept.
type CompanyUpdate struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Website       *string `json:"website"`
	Industry      *string `json:"industry"`
	LogoURL       *string `json:"logo_url"`
	EmployeeCount *int    `json:"employee_count"`
}

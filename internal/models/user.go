package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID                   int64     `json:"id" db:"id"`
	CompanyID            int64     `json:"company_id" db:"company_id"`
	Email                string    `json:"email" db:"email"`
	PasswordHash         string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName            string    `json:"first_name" db:"first_name"`
	LastName             string    `json:"last_name" db:"last_name"`
	Role                 string    `json:"role" db:"role"`
	Position             *string   `json:"position" db:"position"`
	Department           *string   `json:"department" db:"department"`
	AvatarURL            *string   `json:"avatar_url" db:"avatar_url"`
	Level                int       `json:"level" db:"level"`
	ExperiencePoints     int       `json:"experience_points" db:"experience_points"`
	TotalRecommendations int       `json:"total_recommendations" db:"total_recommendations"`
	SuccessfulHires      int       `json:"successful_hires" db:"successful_hires"`
	TotalEarnings        float64   `json:"total_earnings" db:"total_earnings"`
	WalletBalance        float64   `json:"wallet_balance" db:"wallet_balance"`
	WalletPending        float64   `json:"wallet_pending" db:"wallet_pending"`
	IsAdmin              bool      `json:"is_admin" db:"is_admin"`
	IsHRManager          bool      `json:"is_hr_manager" db:"is_hr_manager"`
	EmailVerified        bool      `json:"email_verified" db:"email_verified"`
	VerificationToken    *string   `json:"-" db:"verification_token"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name the way notifications and leaderboards display it.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user may manage vacancies and review recommendations.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.IsAdmin || u.IsHRManager
}

// UserSummary is returned right after registration.
type UserSummary struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
}

// UserProfile is the login view of a user.
type UserProfile struct {
	UserSummary
	Position    *string `json:"position"`
	Department  *string `json:"department"`
	AvatarURL   *string `json:"avatar_url"`
	Level       int     `json:"level"`
	IsAdmin     bool    `json:"is_admin"`
	IsHRManager bool    `json:"is_hr_manager"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CompanyID: u.CompanyID,
		Role:      u.Role,
	}
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		UserSummary: u.Summary(),
		Position:    u.Position,
		Department:  u.Department,
		AvatarURL:   u.AvatarURL,
		Level:       u.Level,
		IsAdmin:     u.IsAdmin,
		IsHRManager: u.IsHRManager,
	}
}

// Principal is the authenticated caller carried by a session token.
type Principal struct {
	UserID    int64
	CompanyID int64
	Email     string
	Role      string
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ProfileUpdate holds the optional profile fields an employee may change. Nil
// fields are left untouched.
type ProfileUpdate struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	AvatarURL  *string `json:"avatar_url"`
}

// EmployeeCard is the leaderboard-style view of a colleague.
type EmployeeCard struct {
	ID                   int64   `json:"id"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	Email                string  `json:"email"`
	Position             *string `json:"position"`
	Department           *string `json:"department"`
	Level                int     `json:"level"`
	ExperiencePoints     int     `json:"experience_points"`
	TotalRecommendations int     `json:"total_recommendations"`
	SuccessfulHires      int     `json:"successful_hires"`
	TotalEarnings        float64 `json:"total_earnings"`
	AvatarURL            *string `json:"avatar_url"`
	IsAdmin              bool    `json:"is_admin"`
	IsHRManager          bool    `json:"is_hr_manager"`
}

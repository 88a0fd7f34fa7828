package models

import "time"

const (
	VacancyActive = "active"
	VacancyClosed = "closed"

	DefaultRewardAmount    = 30000
	DefaultPayoutDelayDays = 30
)

type Vacancy struct {
	ID                   int64     `json:"id" db:"id"`
	CompanyID            int64     `json:"company_id" db:"company_id"`
	Title                string    `json:"title" db:"title"`
	Department           *string   `json:"department" db:"department"`
	SalaryDisplay        *string   `json:"salary_display" db:"salary_display"`
	Requirements         *string   `json:"requirements" db:"requirements"`
	Description          *string   `json:"description" db:"description"`
	Status               string    `json:"status" db:"status"`
	RewardAmount         float64   `json:"reward_amount" db:"reward_amount"`
	PayoutDelayDays      int       `json:"payout_delay_days" db:"payout_delay_days"`
	ReferralToken        string    `json:"referral_token" db:"referral_token"`
	CreatedBy            *int64    `json:"created_by" db:"created_by"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	RecommendationsCount int       `json:"recommendations_count" db:"-"`
	CreatedByName        *string   `json:"created_by_name,omitempty" db:"-"`
}

type Recommendation struct {
	ID                int64      `json:"id" db:"id"`
	VacancyID         int64      `json:"vacancy_id" db:"vacancy_id"`
	RecommendedBy     int64      `json:"recommended_by" db:"recommended_by"`
	CandidateName     string     `json:"candidate_name" db:"candidate_name"`
	CandidateEmail    string     `json:"candidate_email" db:"candidate_email"`
	CandidatePhone    *string    `json:"candidate_phone" db:"candidate_phone"`
	Comment           *string    `json:"comment" db:"comment"`
	Status            string     `json:"status" db:"status"`
	RewardAmount      float64    `json:"reward_amount" db:"reward_amount"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	ReviewedAt        *time.Time `json:"reviewed_at" db:"reviewed_at"`
	VacancyTitle      *string    `json:"vacancy_title,omitempty" db:"-"`
	RecommendedByName *string    `json:"recommended_by_name,omitempty" db:"-"`
}

const (
	RecommendationPending  = "pending"
	RecommendationAccepted = "accepted"
	RecommendationRejected = "rejected"

	// HireExperiencePoints is granted to the recommender for every accepted candidate.
	HireExperiencePoints = 100
)

// RecommendationFilter narrows a company recommendation listing.
type RecommendationFilter struct {
	Status        string
	RecommendedBy int64
}

// AcceptOutcome describes what the reward transaction booked.
type AcceptOutcome struct {
	Recommendation *Recommendation `json:"recommendation"`
	PayoutID       int64           `json:"payout_id"`
	UnlockDate     time.Time       `json:"unlock_date"`
}

// VacancyUpdate carries editable vacancy fields. Nil fields are kept.
type VacancyUpdate struct {
	Title           *string  `json:"title"`
	Department      *string  `json:"department"`
	SalaryDisplay   *string  `json:"salary_display"`
	Requirements    *string  `json:"requirements"`
	Description     *string  `json:"description"`
	Status          *string  `json:"status"`
	RewardAmount    *float64 `json:"reward_amount"`
	PayoutDelayDays *int     `json:"payout_delay_days"`
}

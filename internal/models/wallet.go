package models

import (
	"encoding/json"
	"time"
)

const (
	TransactionRewardPending  = "reward_pending"
	TransactionRewardUnlocked = "reward_unlocked"
	TransactionWithdrawal     = "withdrawal"

	PendingPayoutPending  = "pending"
	PendingPayoutUnlocked = "unlocked"
)

type Wallet struct {
	WalletBalance float64 `json:"wallet_balance"`
	WalletPending float64 `json:"wallet_pending"`
}

type WalletTransaction struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Type        string    `json:"type" db:"type"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type PendingPayout struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	RecommendationID *int64    `json:"recommendation_id" db:"recommendation_id"`
	Amount           float64   `json:"amount" db:"amount"`
	UnlockDate       time.Time `json:"unlock_date" db:"unlock_date"`
	Status           string    `json:"status" db:"status"`
}

type WalletData struct {
	Wallet         Wallet               `json:"wallet"`
	Transactions   []*WalletTransaction `json:"transactions"`
	PendingPayouts []*PendingPayout     `json:"pending_payouts"`
}

const (
	PayoutRequestPending  = "pending"
	PayoutRequestApproved = "approved"
	PayoutRequestRejected = "rejected"
	PayoutRequestPaid     = "paid"
)

type PayoutRequest struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	Amount         float64         `json:"amount" db:"amount"`
	PaymentMethod  string          `json:"payment_method" db:"payment_method"`
	PaymentDetails json.RawMessage `json:"payment_details" db:"payment_details"`
	Status         string          `json:"status" db:"status"`
	AdminComment   *string         `json:"admin_comment" db:"admin_comment"`
	ReviewedBy     *int64          `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt     *time.Time      `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UserName       *string         `json:"user_name,omitempty" db:"-"`
	UserEmail      *string         `json:"user_email,omitempty" db:"-"`
}

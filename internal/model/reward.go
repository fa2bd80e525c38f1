package model

import "time"

type RewardStatus string

const (
	RewardPending  RewardStatus = "pending"
	RewardApproved RewardStatus = "approved"
	RewardRejected RewardStatus = "rejected"
)

type Reward struct {
	ID            int64        `json:"id"`
	CoupleID      int64        `json:"couple_id"`
	SuggestedFor  int64        `json:"suggested_for"`
	CreatedBy     int64        `json:"created_by"`
	ApprovedBy    *int64       `json:"approved_by"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	SuggestedCost int          `json:"suggested_cost"`
	Cost          *int         `json:"cost"`
	Status        RewardStatus `json:"status"`
	PhotoPath     string       `json:"photo_path"`
	Active        bool         `json:"active"`
	CreatedAt     time.Time    `json:"created_at"`
	DecidedAt     *time.Time   `json:"decided_at"`
}

// Redemption records a reward being claimed against the redeemer's
// balance. Cost is copied from the reward at redemption time so later
// reward edits never change what was spent.
type Redemption struct {
	ID         int64     `json:"id"`
	RewardID   int64     `json:"reward_id"`
	RedeemedBy int64     `json:"redeemed_by"`
	Cost       int       `json:"cost"`
	Used       bool      `json:"used"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// Voucher is a redemption joined with its reward title for history views.
type Voucher struct {
	Redemption
	RewardTitle string `json:"reward_title"`
}

// PointBalance is derived from completed tasks minus redemptions.
// It is never stored.
type PointBalance struct {
	UserID  int64 `json:"user_id"`
	Earned  int   `json:"earned"`
	Spent   int   `json:"spent"`
	Balance int   `json:"balance"`
}

package model

import "time"

// Couple groups at most two users under a shared invite code. All tasks,
// rewards, and redemptions are scoped to exactly one couple.
type Couple struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

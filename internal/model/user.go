package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CoupleID     *int64    `json:"couple_id"`
	Color        string    `json:"color"`
	Emoji        string    `json:"emoji"`
	PhotoPath    string    `json:"photo_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// Paired reports whether the user belongs to a couple.
func (u *User) Paired() bool {
	return u.CoupleID != nil
}

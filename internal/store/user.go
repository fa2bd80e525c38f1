package store

import (
	"database/sql"
	"fmt"

	"github.com/mfigueira/nossoapp/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var coupleID sql.NullInt64

	err := scanner.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash,
		&coupleID, &u.Color, &u.Emoji, &u.PhotoPath, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if coupleID.Valid {
		u.CoupleID = &coupleID.Int64
	}
	return &u, nil
}

const userCols = `id, name, username, email, password_hash, couple_id, color, emoji, photo_path, created_at`

func (s *UserStore) Create(name, username, email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		name, username, email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// SetCouple links the user to a couple.
func (s *UserStore) SetCouple(userID, coupleID int64) error {
	_, err := s.db.Exec(`UPDATE users SET couple_id = ? WHERE id = ?`, coupleID, userID)
	if err != nil {
		return fmt.Errorf("set couple: %w", err)
	}
	return nil
}

// CountMembers returns how many users belong to the couple.
func (s *UserStore) CountMembers(coupleID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE couple_id = ?`, coupleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// GetPartner returns the other member of the couple, or nil if there is none.
func (s *UserStore) GetPartner(coupleID, userID int64) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE couple_id = ? AND id != ?`,
		coupleID, userID,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return u, nil
}

func (s *UserStore) UpdateProfile(id int64, color, emoji string) (*model.User, error) {
	_, err := s.db.Exec(`UPDATE users SET color = ?, emoji = ? WHERE id = ?`, color, emoji, id)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) SetPhotoPath(id int64, photoPath string) error {
	_, err := s.db.Exec(`UPDATE users SET photo_path = ? WHERE id = ?`, photoPath, id)
	if err != nil {
		return fmt.Errorf("set photo path: %w", err)
	}
	return nil
}

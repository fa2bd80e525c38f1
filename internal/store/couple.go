package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/mfigueira/nossoapp/internal/model"
)

type CoupleStore struct {
	db *sql.DB
}

func NewCoupleStore(db *sql.DB) *CoupleStore {
	return &CoupleStore{db: db}
}

func scanCouple(scanner interface{ Scan(...any) error }) (*model.Couple, error) {
	var c model.Couple
	err := scanner.Scan(&c.ID, &c.Code, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const coupleCols = `id, code, created_at`

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// generateCode returns a random 6-character uppercase alphanumeric invite code.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Create inserts a new couple with a freshly generated invite code,
// retrying on the (unlikely) collision with an existing code.
func (s *CoupleStore) Create() (*model.Couple, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}

		existing, err := s.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		result, err := s.db.Exec(`INSERT INTO couples (code) VALUES (?)`, code)
		if err != nil {
			return nil, fmt.Errorf("insert couple: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		return s.GetByID(id)
	}
	return nil, fmt.Errorf("generate invite code: too many collisions")
}

func (s *CoupleStore) GetByID(id int64) (*model.Couple, error) {
	row := s.db.QueryRow(`SELECT `+coupleCols+` FROM couples WHERE id = ?`, id)
	c, err := scanCouple(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get couple: %w", err)
	}
	return c, nil
}

func (s *CoupleStore) GetByCode(code string) (*model.Couple, error) {
	row := s.db.QueryRow(`SELECT `+coupleCols+` FROM couples WHERE code = ?`, code)
	c, err := scanCouple(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get couple by code: %w", err)
	}
	return c, nil
}

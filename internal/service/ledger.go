package service

import (
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/store"
)

// Ledger answers points questions. Balances are always derived from
// completed tasks and redemptions, never cached, so every mutation is
// reflected immediately.
type Ledger struct {
	rewards *store.RewardStore
}

func NewLedger(rs *store.RewardStore) *Ledger {
	return &Ledger{rewards: rs}
}

// Balance returns earned, spent, and their difference for the user.
// An unpaired user has no tasks or redemptions, so everything is zero.
func (s *Ledger) Balance(userID int64) (*model.PointBalance, error) {
	return s.rewards.PointBalance(userID)
}

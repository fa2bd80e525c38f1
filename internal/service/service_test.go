package service

import (
	"log/slog"
	"testing"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/database"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/store"
)

// env bundles the full service stack over a fresh in-memory database.
type env struct {
	identity *Identity
	ledger   *Ledger
	tasks    *Tasks
	rewards  *Rewards

	users   *store.UserStore
	couples *store.CoupleStore
}

func setup(t *testing.T) *env {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.Default()

	userStore := store.NewUserStore(db)
	coupleStore := store.NewCoupleStore(db)
	taskStore := store.NewTaskStore(db)
	rewardStore := store.NewRewardStore(db)

	ledger := NewLedger(rewardStore)

	return &env{
		identity: NewIdentity(userStore, coupleStore, logger),
		ledger:   ledger,
		tasks:    NewTasks(taskStore, userStore, logger),
		rewards:  NewRewards(rewardStore, userStore, ledger, logger),
		users:    userStore,
		couples:  coupleStore,
	}
}

// register creates an account and returns its auth context (unpaired).
func (e *env) register(t *testing.T, name, username string) auth.AuthContext {
	t.Helper()

	user, err := e.identity.Register(name, username, username+"@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return auth.AuthContext{UserID: user.ID}
}

// pair links the two users into a fresh couple and updates both contexts.
func (e *env) pair(t *testing.T, a, b *auth.AuthContext) *model.Couple {
	t.Helper()

	couple, err := e.identity.CreateCouple(a.UserID)
	if err != nil {
		t.Fatalf("create couple: %v", err)
	}
	if _, err := e.identity.JoinCouple(b.UserID, couple.Code); err != nil {
		t.Fatalf("join couple: %v", err)
	}
	a.CoupleID = couple.ID
	b.CoupleID = couple.ID
	return couple
}

package store

import (
	"database/sql"
	"testing"

	"github.com/mfigueira/nossoapp/internal/database"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedCouple creates a couple with two members and returns their IDs.
func seedCouple(t *testing.T, db *sql.DB) (coupleID, anaID, brunoID int64) {
	t.Helper()

	couples := NewCoupleStore(db)
	users := NewUserStore(db)

	couple, err := couples.Create()
	if err != nil {
		t.Fatalf("create couple: %v", err)
	}

	ana, err := users.Create("Ana", "ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("create ana: %v", err)
	}
	bruno, err := users.Create("Bruno", "bruno", "bruno@example.com", "hash")
	if err != nil {
		t.Fatalf("create bruno: %v", err)
	}

	if err := users.SetCouple(ana.ID, couple.ID); err != nil {
		t.Fatalf("pair ana: %v", err)
	}
	if err := users.SetCouple(bruno.ID, couple.ID); err != nil {
		t.Fatalf("pair bruno: %v", err)
	}

	return couple.ID, ana.ID, bruno.ID
}

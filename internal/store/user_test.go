package store

import (
	"strings"
	"testing"
)

func TestUserCreateAndGet(t *testing.T) {
	db := setupDB(t)
	users := NewUserStore(db)

	created, err := users.Create("Ana", "ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if created.CoupleID != nil {
		t.Fatal("new user should be unpaired")
	}

	byUsername, err := users.GetByUsername("ana")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byUsername == nil || byUsername.ID != created.ID {
		t.Fatalf("got %+v, want user %d", byUsername, created.ID)
	}

	byEmail, err := users.GetByEmail("ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("got %+v, want user %d", byEmail, created.ID)
	}
}

func TestUserUsernameUniqueCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	users := NewUserStore(db)

	if _, err := users.Create("Ana", "ana", "ana@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := users.Create("Other", "ANA", "other@example.com", "hash")
	if err == nil {
		t.Fatal("expected unique constraint violation for username differing only in case")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Fatalf("expected unique violation, got: %v", err)
	}
}

func TestUserGetPartner(t *testing.T) {
	db := setupDB(t)
	users := NewUserStore(db)

	coupleID, anaID, brunoID := seedCouple(t, db)

	partner, err := users.GetPartner(coupleID, anaID)
	if err != nil {
		t.Fatalf("get partner: %v", err)
	}
	if partner == nil || partner.ID != brunoID {
		t.Fatalf("got %+v, want user %d", partner, brunoID)
	}

	partner, err = users.GetPartner(coupleID, brunoID)
	if err != nil {
		t.Fatalf("get partner: %v", err)
	}
	if partner == nil || partner.ID != anaID {
		t.Fatalf("got %+v, want user %d", partner, anaID)
	}
}

func TestUserCountMembers(t *testing.T) {
	db := setupDB(t)
	users := NewUserStore(db)

	coupleID, _, _ := seedCouple(t, db)

	count, err := users.CountMembers(coupleID)
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	db := setupDB(t)
	users := NewUserStore(db)

	created, err := users.Create("Ana", "ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	updated, err := users.UpdateProfile(created.ID, "#FF5722", "🦊")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Color != "#FF5722" || updated.Emoji != "🦊" {
		t.Fatalf("got color=%q emoji=%q", updated.Color, updated.Emoji)
	}
}

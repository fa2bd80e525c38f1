package service

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/store"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const minPasswordLength = 8

// Identity manages accounts and couple pairing.
type Identity struct {
	users   *store.UserStore
	couples *store.CoupleStore
	logger  *slog.Logger
}

func NewIdentity(us *store.UserStore, cs *store.CoupleStore, logger *slog.Logger) *Identity {
	return &Identity{users: us, couples: cs, logger: logger}
}

// Register validates the input and creates an unpaired account with a
// bcrypt-hashed credential. Nothing is persisted when validation fails.
func (s *Identity) Register(name, username, email, password, confirm string) (*model.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return nil, validationf("name is required")
	}
	if !usernameRe.MatchString(username) {
		return nil, validationf("username must be 3-20 letters, digits, or underscores")
	}
	if !emailRe.MatchString(email) {
		return nil, validationf("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}
	if password != confirm {
		return nil, validationf("passwords do not match")
	}

	if existing, err := s.users.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, conflictf("username %q is already taken", username)
	}
	if existing, err := s.users.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, conflictf("email is already registered")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(name, username, email, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate verifies the credentials. The error is identical for an
// unknown username and a wrong password.
func (s *Identity) Authenticate(username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, authf("incorrect username or password")
	}
	return user, nil
}

// CreateCouple pairs the user to a new couple with a fresh invite code.
func (s *Identity) CreateCouple(userID int64) (*model.Couple, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundf("user not found")
	}
	if user.Paired() {
		return nil, conflictf("you are already in a couple")
	}

	couple, err := s.couples.Create()
	if err != nil {
		return nil, err
	}
	if err := s.users.SetCouple(userID, couple.ID); err != nil {
		return nil, err
	}

	s.logger.Info("couple created", "couple_id", couple.ID, "user_id", userID)
	return couple, nil
}

// JoinCouple adds the user as the second member of the couple with the
// given invite code.
func (s *Identity) JoinCouple(userID int64, code string) (*model.Couple, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundf("user not found")
	}
	if user.Paired() {
		return nil, conflictf("you are already in a couple")
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	couple, err := s.couples.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, notFoundf("invite code not found")
	}

	members, err := s.users.CountMembers(couple.ID)
	if err != nil {
		return nil, err
	}
	if members >= 2 {
		return nil, conflictf("this couple is already complete")
	}

	if err := s.users.SetCouple(userID, couple.ID); err != nil {
		return nil, err
	}

	s.logger.Info("couple joined", "couple_id", couple.ID, "user_id", userID)
	return couple, nil
}

// Partner returns the other member of the user's couple, or nil when
// the user is unpaired or still waiting for a partner.
func (s *Identity) Partner(userID int64) (*model.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Paired() {
		return nil, nil
	}
	return s.users.GetPartner(*user.CoupleID, userID)
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// UpdateProfile sets the user's display color and emoji.
func (s *Identity) UpdateProfile(userID int64, color, emoji string) (*model.User, error) {
	if !colorRe.MatchString(color) {
		return nil, validationf("color must be a hex value like #4CAF50")
	}
	emoji = strings.TrimSpace(emoji)
	if emoji == "" || len(emoji) > 16 {
		return nil, validationf("invalid emoji")
	}
	return s.users.UpdateProfile(userID, color, emoji)
}

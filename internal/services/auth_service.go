package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
)

// Bootstrap admin credential, created only when no admin exists. Rotate it
// immediately on a real deployment.
const (
	adminUsername = "admin"
	adminEmail    = "admin@chronoworks.test"
	adminPassword = "admin123"
)

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

// hashPassword persists credentials as "salt:hex(sha256(password+salt))".
func hashPassword(password string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	salt := hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(password + salt))
	return salt + ":" + hex.EncodeToString(sum[:])
}

func verifyPassword(password, stored string) bool {
	salt, want, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	sum := sha256.Sum256([]byte(password + salt))
	got := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Register creates an active, non-admin user. Username and email conflicts
// are checked as stored, case sensitively; username wins when both collide.
func (s *AuthService) Register(username, email, password, fullName string) (*domain.User, error) {
	usernameTaken, emailTaken, err := s.Users.FindConflict(username, email)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, domain.Conflictf("username %q", username)
	}
	if emailTaken {
		return nil, domain.Conflictf("email %q", email)
	}

	u := &domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		FullName: fullName,
		Hash:     hashPassword(password),
		Active:   true,
		Admin:    false,
	}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate looks up an active user by username or email. Lookup misses
// and hash mismatches are indistinguishable to the caller.
func (s *AuthService) Authenticate(usernameOrEmail, password string) (*domain.User, error) {
	u, err := s.Users.ByLogin(usernameOrEmail)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !verifyPassword(password, u.Hash) {
		return nil, domain.ErrInvalidCredentials
	}
	_ = s.Users.Touch(u.ID)
	return u, nil
}

// GetByID returns an active user.
func (s *AuthService) GetByID(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, domain.NotFoundf("user %s", id)
	}
	return u, nil
}

// UpdateProfile changes email and/or full name; nil leaves a field alone.
// A new email must not belong to another user.
func (s *AuthService) UpdateProfile(id string, email, fullName *string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, err
	}

	newEmail := u.Email
	if email != nil && *email != u.Email {
		taken, err := s.Users.EmailTakenByOther(*email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflictf("email %q", *email)
		}
		newEmail = *email
	}
	newName := u.FullName
	if fullName != nil {
		newName = *fullName
	}

	if err := s.Users.UpdateProfile(id, newEmail, newName); err != nil {
		return nil, err
	}
	u.Email = newEmail
	u.FullName = newName
	return u, nil
}

func (s *AuthService) ChangePassword(id, current, newPassword string) error {
	u, err := s.Users.ByID(id)
	if err != nil {
		return err
	}
	if !verifyPassword(current, u.Hash) {
		return fmt.Errorf("current password: %w", domain.ErrInvalidCredentials)
	}
	return s.Users.UpdatePassword(id, hashPassword(newPassword))
}

// EnsureAdmin creates the bootstrap admin when no admin exists; otherwise
// it is a no-op and returns nil.
func (s *AuthService) EnsureAdmin() (*domain.User, error) {
	exists, err := s.Users.AdminExists()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	u := &domain.User{
		ID:       uuid.NewString(),
		Username: adminUsername,
		Email:    adminEmail,
		FullName: "Administrator",
		Hash:     hashPassword(adminPassword),
		Active:   true,
		Admin:    true,
	}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ListAll(limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Users.List(limit, offset)
}

package services

import (
	"database/sql"
	"errors"
	"strings"

	"aolua/internal/domain"
	"aolua/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users *repos.UserRepo
	Carts *repos.CartRepo
}

// Login verifies credentials, binds the session and folds any guest cart
// into the user's cart.
func (s *AuthService) Login(sid, guestToken, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	if s.Carts != nil && guestToken != "" {
		_ = s.Carts.MergeForLogin(u.ID, guestToken)
	}
	return u, nil
}

func (s *AuthService) Register(email, name, phone, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Phone: phone,
		Hash:  string(h),
		Role:  "USER",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studentfin/internal/auth"
	"studentfin/internal/core"
	"studentfin/internal/storage"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Currency string `json:"currency"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	User  *core.User `json:"user"`
	Token string     `json:"token"`
}

type AuthService struct {
	base
	issuer *auth.Issuer
}

func NewAuthService(store storage.Store, issuer *auth.Issuer, clock Clock) *AuthService {
	return &AuthService{base: newBase(store, nil, clock), issuer: issuer}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	now := s.now()
	u := &core.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     core.NormalizeEmail(in.Email),
		Currency:  core.NormalizeCurrency(in.Currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return Session{}, err
	}
	if err := core.ValidatePassword(in.Password); err != nil {
		return Session{}, err
	}

	_, err := s.store.GetUserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return Session{}, core.Conflict("User already exists")
	case !errors.Is(err, core.ErrNotFound):
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if u.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
		return Session{}, err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return Session{}, conflictAs(err, "User already exists")
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := core.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, core.Validation("Please provide email and password")
	}
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return Session{}, core.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return Session{}, core.Unauthorized("Invalid credentials")
	}
	return s.session(u)
}

// Me reloads the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*core.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFound("User not found")
	}
	return u, err
}

func (s *AuthService) session(u *core.User) (Session, error) {
	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: token}, nil
}

// Package user handles signup, login, token refresh and profile reads.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/auth"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
)

const minPasswordLen = 8

type Service struct {
	users  store.Users
	tokens *auth.TokenIssuer
}

func NewService(users store.Users, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

type SignupRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name"`
	Company  string      `json:"company"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Company  *string `json:"company"`
}

// Session is the token pair handed out at signup, login and refresh.
type Session struct {
	auth.TokenPair
	User *models.User `json:"user"`
}

func normalizeEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return "", apperr.Invalid("Invalid email address")
	}
	return strings.ToLower(addr.Address), nil
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperr.Invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if !req.Role.Valid() {
		return nil, apperr.Invalid("Role must be one of INVENTOR, LAWYER, ADMIN")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:          email,
		HashedPassword: hash,
		Role:           req.Role,
		FullName:       strings.TrimSpace(req.FullName),
		Company:        strings.TrimSpace(req.Company),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Invalid("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	bad := apperr.Unauthorized("Incorrect email or password")

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, bad
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, bad
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !auth.CheckPassword(u.HashedPassword, req.Password) {
		return nil, bad
	}
	return s.session(u)
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, err
	}
	id, _ := claims.UserID()
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.session(u)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Company != nil {
		u.Company = strings.TrimSpace(*req.Company)
	}
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Lawyers lists every LAWYER so inventors can pick one.
func (s *Service) Lawyers(ctx context.Context) ([]models.User, error) {
	lawyers, err := s.users.ListUsersByRole(ctx, models.RoleLawyer)
	if err != nil {
		return nil, fmt.Errorf("list lawyers: %w", err)
	}
	return lawyers, nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	pair, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, User: u}, nil
}

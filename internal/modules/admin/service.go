package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

// Service defines admin authentication and session lookup.
type Service interface {
	// Login checks credentials and returns the admin with a signed session token.
	Login(ctx context.Context, email, password string) (*Admin, string, time.Time, error)
	// Authenticate resolves a session token to the active admin behind it.
	Authenticate(ctx context.Context, token string) (*Admin, error)
	// CreateAdmin registers a new admin with a bcrypt password hash.
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*Admin, error)
}

// CreateAdminRequest is the payload for provisioning an admin.
type CreateAdminRequest struct {
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=12"`
	Name        string      `json:"name" validate:"required"`
	Role        string      `json:"role"`
	Permissions Permissions `json:"permissions"`
}

type service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService creates a new admin service.
func NewService(repo Repository, tokens *TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

var errInvalidCredentials = apperr.Unauthorized("invalid credentials")

func (s *service) Login(ctx context.Context, email, password string) (*Admin, string, time.Time, error) {
	a, err := s.repo.GetAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, "", time.Time{}, errInvalidCredentials
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, errInvalidCredentials
	}
	if !a.IsActive {
		return nil, "", time.Time{}, apperr.Forbidden("admin account is inactive")
	}

	token, expiresAt, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.repo.TouchLastLogin(ctx, a.ID.String()); err != nil {
		return nil, "", time.Time{}, err
	}
	return a, token, expiresAt, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*Admin, error) {
	if token == "" {
		return nil, apperr.Unauthorized("authentication required")
	}
	adminID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("session is invalid or expired")
	}

	a, err := s.repo.GetAdminByID(ctx, adminID)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, apperr.Unauthorized("session is invalid or expired")
	}
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, apperr.Unauthorized("admin account is inactive")
	}
	return a, nil
}

func (s *service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "admin"
	}
	a := &Admin{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
		Permissions:  req.Permissions,
	}
	if err := s.repo.CreateAdmin(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

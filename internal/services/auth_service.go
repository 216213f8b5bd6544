package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/gigmatch/internal/models"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
)

type RegisterInput struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Role        models.UserRole `json:"role"`
	PhoneNumber string          `json:"phone_number"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	users    pgrepo.UserRepository
	profiles pgrepo.ProfileRepository
	secret   string
	ttl      time.Duration
}

func NewAuthService(users pgrepo.UserRepository, profiles pgrepo.ProfileRepository, secret string, ttl time.Duration) AuthService {
	return &authService{users: users, profiles: profiles, secret: secret, ttl: ttl}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "AuthService.Register"

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and email are required", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid email", err)
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	if in.Role == "" {
		in.Role = models.RoleSeeker
	}
	in.Role = models.UserRole(strings.ToUpper(string(in.Role)))
	if !in.Role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be SEEKER or BUSINESS", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "username or email already taken", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
		p, err := s.profiles.GetOrCreate(ctx, u.ID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create profile", err)
		}
		p.PhoneNumber = phone
		if err := s.profiles.Save(ctx, p, nil); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
		}
	}

	return s.issue(op, u)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	const op = "AuthService.Login"

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid credentials", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid credentials", nil)
	}

	return s.issue(op, u)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	const op = "AuthService.Me"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return u, nil
}

func (s *authService) issue(op string, u *models.User) (*AuthResult, error) {
	tok, err := utils.IssueToken(s.secret, u.ID, string(u.Role), s.ttl)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

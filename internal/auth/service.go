package auth

import (
	"errors"
	"fmt"
	"regexp"

	"librarium/internal/config"
	"librarium/internal/database/users"
	"librarium/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("too many failed login attempts")
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// Service handles registration and credential checks.
type Service struct {
	users   *users.Repository
	tokens  *TokenManager
	limiter *RateLimiter
	config  config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, tokens *TokenManager, limiter *RateLimiter, cfg config.Auth) *Service {
	return &Service{
		users:   repo,
		tokens:  tokens,
		limiter: limiter,
		config:  cfg,
	}
}

// Register validates the input, hashes the password and creates the
// user. Duplicate emails are rejected by the repository.
func (s *Service) Register(in RegisterInput) (*entities.User, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.Email == "" {
		return nil, ErrEmailRequired
	}
	// RFC 5321 caps addresses at 254 characters
	if len(in.Email) > 254 || !emailPattern.MatchString(in.Email) {
		return nil, ErrEmailInvalid
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Address:      in.Address,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns the user with a fresh bearer
// token. Failed attempts count toward the per-IP+email lockout; a
// missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ip, email, password string) (*entities.User, string, error) {
	if allowed, _ := s.limiter.Allow(ip, email); !allowed {
		return nil, "", ErrAccountLocked
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			s.limiter.RecordFailure(ip, email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			s.limiter.RecordFailure(ip, email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	s.limiter.RecordSuccess(ip, email)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/config"
	"opspulse/internal/pkg/jwt"
	"opspulse/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailDomainDenied  = errors.New("email domain not allowed")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user account is inactive")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Apply email domain policy
	if domain := s.cfg.Auth.AllowedEmailDomain; domain != "" {
		if !strings.HasSuffix(input.Email, "@"+domain) {
			return nil, ErrEmailDomainDenied
		}
	}

	// 2. Validate password strength
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user. Registration counts as the first login.
	now := time.Now()
	user := &models.User{
		Email:      input.Email,
		Name:       input.Name,
		Password:   hashedPassword,
		Role:       "user",
		IsActive:   true,
		LastLogin:  &now,
		LoginCount: 1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	// 5. Generate token
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Email)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Update login counters
	now := time.Now()
	user.LastLogin = &now
	user.LoginCount++
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// 5. Generate token
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ResolveUser resolves an access token to the stored principal.
// This is the single choke point every protected operation goes through.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

// issueToken mints an access token carrying the user's identity
func (s *AuthService) issueToken(user *models.User) (string, error) {
	ttl := time.Duration(s.cfg.JWT.AccessTokenHours) * time.Hour
	return jwt.GenerateAccessToken(user.Email, user.Role, s.cfg.JWT.Secret, ttl)
}

package services

import (
	"context"
	"testing"

	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, cfg *config.Config) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repositories.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		Email:    "alice@bt.com",
		Name:     "Alice",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "user", registered.User.Role)
	assert.Equal(t, 1, registered.User.LoginCount)

	loggedIn, err := svc.Login(ctx, &LoginInput{Email: "alice@bt.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, 2, loggedIn.User.LoginCount)
	assert.NotNil(t, loggedIn.User.LastLogin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))
	ctx := context.Background()
	input := &RegisterInput{Email: "alice@bt.com", Name: "Alice", Password: "correct-horse"}

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))

	_, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "alice@bt.com",
		Name:     "Alice",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterEmailDomainPolicy(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Auth.AllowedEmailDomain = "bt.com"
	svc := newAuthService(t, cfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "mallory@evil.com", Name: "Mallory", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrEmailDomainDenied)

	_, err = svc.Register(ctx, &RegisterInput{Email: "alice@bt.com", Name: "Alice", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "alice@bt.com", Name: "Alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "alice@bt.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))

	// Unknown email and bad password are indistinguishable to the caller
	_, err := svc.Login(context.Background(), &LoginInput{Email: "ghost@bt.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveUserRoundtrip(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository(db), cfg)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{Email: "alice@bt.com", Name: "Alice", Password: "correct-horse"})
	require.NoError(t, err)

	user, err := svc.ResolveUser(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@bt.com", user.Email)
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestResolveUserBadToken(t *testing.T) {
	svc := newAuthService(t, newTestConfig(t))

	_, err := svc.ResolveUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveUserInactiveAccount(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewAuthService(userRepo, cfg)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{Email: "alice@bt.com", Name: "Alice", Password: "correct-horse"})
	require.NoError(t, err)

	user, err := userRepo.GetByEmail(ctx, "alice@bt.com")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, userRepo.Update(ctx, user))

	_, err = svc.ResolveUser(ctx, registered.Token)
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = svc.Login(ctx, &LoginInput{Email: "alice@bt.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

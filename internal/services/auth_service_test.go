package services

import (
	"testing"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// staleEmailLookup misses every email, as a lookup racing a concurrent insert would.
type staleEmailLookup struct {
	repository.UserRepository
}

func (staleEmailLookup) FindByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.auth.Register(RegisterInput{Name: " Alice ", Email: "Alice@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.User.Name)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "password123", result.User.PasswordHash)

	claims, err := f.tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "b@example.com", Password: "password123"}, ErrMissingFields},
		{"blank name", RegisterInput{Name: "   ", Email: "b@example.com", Password: "password123"}, ErrMissingFields},
		{"bad email", RegisterInput{Name: "Bob", Email: "not-an-email", Password: "password123"}, ErrInvalidEmail},
		{"short password", RegisterInput{Name: "Bob", Email: "b@example.com", Password: "short"}, ErrPasswordTooShort},
		{"duplicate email", RegisterInput{Name: "Bob", Email: "ALICE@example.com", Password: "password123"}, ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_RegisterLosingRaceIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	racing := NewAuthService(staleEmailLookup{repository.NewUserRepository(f.db)}, f.tokens)
	_, err = racing.Register(RegisterInput{Name: "Alice 2", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_UpdateProfileLosingRaceIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	bob, err := f.auth.Register(RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	users := NewUserService(staleEmailLookup{repository.NewUserRepository(f.db)},
		repository.NewTeamRepository(f.db), repository.NewProjectRepository(f.db), repository.NewTaskRepository(f.db))
	email := "alice@example.com"
	_, err = users.UpdateProfile(bob.User.ID, UpdateProfileInput{Email: &email})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	result, err := f.auth.Login(LoginInput{Email: "ALICE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = f.auth.Login(LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.auth.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenService_Parse(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	token, err := tokens.Issue(42)
	require.NoError(t, err)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)

	_, err = NewTokenService("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenService("secret", -time.Hour).Issue(42)
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

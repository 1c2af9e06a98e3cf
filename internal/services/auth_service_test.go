package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newAuthService(repo *MockUserRepository, publisher *MockPublisher) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, publisherOf(publisher))
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := newAuthService(mockRepo, publisher)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound("user", "test@example.com")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-1"
	}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOf("user.created")).Return(nil).Once()

	user, token, err := authService.Signup(ctx, "Test", " Test@Example.com ", "Abc123!5")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "Abc123!5", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abc123!5")))

	userID, err := authService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAuthService_SignupRejectsWeakPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	_, _, err := authService.Signup(context.Background(), "Test", "test@example.com", "abc12345")
	assert.ErrorIs(t, err, services.ErrWeakPassword)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignupRejectsOverlongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	_, _, err := authService.Signup(context.Background(), "Test", "test@example.com", "Abc123!"+strings.Repeat("x", 80))
	assert.ErrorIs(t, err, services.ErrPasswordTooLong)
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginUnknownEmailWithOverlongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, notFound("user", "nobody@example.com")).Once()
	_, _, err := authService.Login(ctx, "nobody@example.com", strings.Repeat("x", 100))
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupRejectsBadEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)

	_, _, err := authService.Signup(context.Background(), "Test", "not-an-email", "Abc123!5")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, "Invalid email address.", err.Error())
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)
	ctx := context.Background()

	// Already registered
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err := authService.Signup(ctx, "Test", "test@example.com", "Abc123!5")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	// Lost a race with a concurrent signup
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound("user", "test@example.com")).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicateKey)).Once()
	_, _, err = authService.Signup(ctx, "Test", "test@example.com", "Abc123!5")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Abc123!5"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	got, token, err := authService.Login(ctx, "test@example.com", "Abc123!5")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64(time.Hour/time.Second), exp-iat)

	// Wrong password and unknown email fail the same way
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, _, wrongPassword := authService.Login(ctx, "test@example.com", "Wrong123!")

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, notFound("user", "nobody@example.com")).Once()
	_, _, unknownEmail := authService.Login(ctx, "nobody@example.com", "Abc123!5")

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, errors.New("connection refused")).Once()
	_, _, err := authService.Login(ctx, "test@example.com", "Abc123!5")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_VerifyToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), nil)

	sign := func(claims jwt.MapClaims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	// Valid token
	userID, err := authService.VerifyToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	}, testJWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Missing token
	_, err = authService.VerifyToken("")
	assert.ErrorIs(t, err, services.ErrMissingToken)

	// Garbage
	_, err = authService.VerifyToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Wrong secret
	_, err = authService.VerifyToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	}, "other-secret"))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Older than an hour: signature is fine but it has expired
	_, err = authService.VerifyToken(sign(jwt.MapClaims{
		"user_id": "user-123",
		"iat":     jwt.TimeFunc().Add(-2 * time.Hour).Unix(),
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrTokenExpired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// No expiry claim
	_, err = authService.VerifyToken(sign(jwt.MapClaims{"user_id": "user-123"}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// No user id
	_, err = authService.VerifyToken(sign(jwt.MapClaims{"exp": jwt.TimeFunc().Add(time.Hour).Unix()}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

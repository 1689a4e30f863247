package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func newTestAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, "test_jwt_secret", 15*time.Minute, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	user := &models.User{
		Email:       "Test@Example.com",
		Password:    "password123",
		DisplayName: "Test User",
		FirstName:   "Test",
		LastName:    "User",
	}

	// Email is normalized before the uniqueness check and storage.
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	pair, err := authService.Register(user)
	assert.NoError(t, err)
	assert.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, 5.0, user.Rating)
	assert.Equal(t, "Not specified", user.Location)
	// Stored password must be a bcrypt hash, not the plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test email already registered (case-insensitive)
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register(&models.User{Email: "TEST@example.com", Password: "password123"})
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Test successful login
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	loggedIn, pair, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Validate the access token structure
	parsedToken, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test_jwt_secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, "access", claims["typ"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	_, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found) yields the same generic message
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Email: "test@example.com", Password: string(hashedPassword)}

	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	_, pair, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)

	// Access token validates
	claims, err := authService.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// A refresh token must not pass access validation
	_, err = authService.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Garbage token
	_, err = authService.ValidateAccessToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"typ":     "access",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte("test_jwt_secret"))
	_, err = authService.ValidateAccessToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_Refresh(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Email: "test@example.com", Password: string(hashedPassword)}

	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	_, pair, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)

	// Refresh with the refresh token issues a new pair
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	fresh, err := authService.Refresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
	mockRepo.AssertExpectations(t)

	// An access token cannot be used as a refresh token
	_, err = authService.Refresh(pair.AccessToken)
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Refresh fails if the user no longer exists
	mockRepo.On("GetByID", "user-123").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Refresh(pair.RefreshToken)
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

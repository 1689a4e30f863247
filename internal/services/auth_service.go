package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the typ claim.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is the access/refresh token pair issued on register and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles registration, login, and token issuance/validation.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// NormalizeEmail lowercases and trims an email so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account. The email is normalized, checked for
// uniqueness, and the password is bcrypt-hashed before storage. Profile
// defaults (role, rating, location) are applied here.
func (s *AuthService) Register(user *models.User) (*TokenPair, error) {
	user.Email = NormalizeEmail(user.Email)

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s' already registered: %w", user.Email, repositories.ErrDuplicate)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Rating == 0 {
		user.Rating = 5.0
	}
	if user.Location == "" {
		user.Location = "Not specified"
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return s.issueTokens(user)
}

// Login authenticates by email and password. Both an unknown email and a
// wrong password yield the same generic error, so callers cannot tell which
// field was wrong.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return nil, fmt.Errorf("not a refresh token: %w", ErrUnauthorized)
	}

	userID, _ := claims["user_id"].(string)
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}

	return s.issueTokens(user)
}

// ValidateAccessToken parses and validates an access token, returning its
// claims. Refresh tokens are rejected here so they cannot authorize requests.
func (s *AuthService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeAccess {
		return nil, fmt.Errorf("not an access token: %w", ErrUnauthorized)
	}
	return claims, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"typ":     typ,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

package service

import (
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/fault"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	secret        []byte
	sessionExpiry time.Duration
	clock         clock.Clock
}

func NewAuthService(secret string, sessionExpiry time.Duration, clk clock.Clock) AuthService {
	return &authService{secret: []byte(secret), sessionExpiry: sessionExpiry, clock: clk}
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fault.Unknown(err)
	}
	return string(hash), nil
}

func (s *authService) ValidatePassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func (s *authService) GenerateUserRef() string {
	return uuid.New().String()
}

func (s *authService) CreateSession(userRef string) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.sessionExpiry)

	claims := jwt.MapClaims{
		"sub":  userRef,
		"type": "session",
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fault.Unknown(err)
	}
	return &Session{Token: signed, ExpiresAt: expiresAt}, nil
}

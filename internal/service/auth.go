package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/opskrifter/internal/middleware"
)

// AdminTokenTTL is the lifetime of an admin session token
const AdminTokenTTL = 12 * time.Hour

const adminSubject = "admin"

var ErrInvalidCredentials = errors.New("forkert adgangskode")

// AdminAuthService checks the admin password and issues session tokens
type AdminAuthService struct {
	passwordHash string
	jwtSecret    string
	now          func() time.Time
}

// NewAdminAuthService creates a new AdminAuthService. An empty hash turns
// authentication off.
func NewAdminAuthService(passwordHash, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		now:          time.Now,
	}
}

// Enabled reports whether a password is required
func (s *AdminAuthService) Enabled() bool {
	return s.passwordHash != ""
}

// Login compares the password with the configured bcrypt hash and returns a
// signed token
func (s *AdminAuthService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.generateToken()
}

func (s *AdminAuthService) generateToken() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AdminTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a token issued by Login
func (s *AdminAuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject != adminSubject {
		return nil, errors.New("invalid token")
	}

	return &middleware.TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

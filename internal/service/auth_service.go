package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opsych/ophtheon/internal/config"
	"github.com/opsych/ophtheon/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles examiner authentication. Subjects never authenticate;
// only the examiner operating the console holds a token.
type AuthService struct {
	username  string
	password  string
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		username:  cfg.ExaminerUsername,
		password:  cfg.ExaminerPassword,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// Login validates examiner credentials and returns a session token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.username || password != s.password {
		return nil, ErrInvalidCredentials
	}

	examinerID := "examiner_" + uuid.New().String()[:8]

	claims := &model.ExaminerClaims{
		ExaminerID: examinerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		ExaminerID: examinerID,
	}, nil
}

// ValidateToken validates an examiner JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.ExaminerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ExaminerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ExaminerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

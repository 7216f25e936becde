package service

import (
	"context"
	"errors"
	"time"

	"bloghub/internal/config"
	"bloghub/internal/httpapi/middleware/auth"
	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrEmailInUse         = errors.New("email already in use")
)

// Claims is what the identity layer resolves a bearer token to: a stable
// external subject id plus the email used as the join key to local users.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ExternalID returns the provider subject carried in the token.
func (c *Claims) ExternalID() string {
	return c.Subject
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry,
	}
}

// Register creates a local account. Local accounts act as their own identity
// provider: the issued token carries the user id as the external subject.
func (s *authService) Register(ctx context.Context, email, password string) (string, *models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Email:    email,
		Password: &hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates a local account and returns an access token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user.Password == nil {
		// dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(*user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	subject := user.ID
	if user.ExternalID != nil {
		subject = *user.ExternalID
	}

	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken resolves a bearer token to {externalId, email} or fails with
// an unauthenticated-class error. Provider-issued tokens signed with the
// shared secret resolve the same way as locally issued ones.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

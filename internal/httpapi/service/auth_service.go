package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"reviewhub/internal/confirmation"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mailer"
)

var (
	ErrUsernameInUse = errors.New("username already in use by another account")
	ErrEmailInUse    = errors.New("email already in use by another account")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims carried by an access token. Role is resolved again from the
// stored user on each request, so a stale role here only costs a lookup.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          confirmation.Store
	mail           mailer.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes confirmation.Store,
	mail mailer.Mailer,
	jwtSecret string,
	accessTokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		mail:           mail,
		jwtSecret:      jwtSecret,
		accessTokenTTL: accessTokenTTL,
	}
}

// Signup creates the user on first request and re-issues a code on repeat
// requests with the same (username, email) pair. A pair that collides with
// a different account is rejected per field.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	byUsername, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user *models.User
	switch {
	case byUsername == nil && byEmail == nil:
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		// existing account asking for a fresh code
		user = byUsername
	case byUsername != nil:
		return nil, ErrUsernameInUse
	default:
		return nil, ErrEmailInUse
	}

	code, err := s.codes.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.mail.SendConfirmationCode(ctx, user.Email, code); err != nil {
		return nil, err
	}

	return user, nil
}

// IssueToken exchanges a valid confirmation code for an access token.
func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if err := s.codes.Verify(ctx, user.ID, code); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

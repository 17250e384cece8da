package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"campusvibe/internal/domain/entity"
	"campusvibe/internal/domain/repository"
	"campusvibe/pkg/jwt"
)

type AuthUsecase struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new account. Passwords are stored as given, which
// keeps existing accounts working; hashing is tracked in DESIGN.md.
func (uc *AuthUsecase) Register(
	ctx context.Context,
	email, pass, name string,
) (*entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || pass == "" || name == "" {
		return nil, errors.New("all fields are required")
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil && err == nil {
		return nil, errors.New("user already exists with this email")
	}

	user := &entity.User{
		Email:    email,
		Password: pass,
		Name:     name,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (uc *AuthUsecase) Login(
	ctx context.Context,
	email, pass string,
) (string, *entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || pass == "" {
		return "", nil, errors.New("email and password are required")
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, errors.New("invalid credentials")
		}
		return "", nil, err
	}
	if user == nil || user.Password != pass {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, uc.jwtSecret, uc.jwtExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

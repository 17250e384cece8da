package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campusvibe/internal/domain/entity"
	"campusvibe/pkg/jwt"
)

type mockUserRepo struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, sql.ErrNoRows
}

func TestRegister(t *testing.T) {
	var created *entity.User
	repo := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *entity.User) error {
			created = user
			return nil
		},
	}
	uc := NewAuthUsecase(repo, "secret", time.Hour)

	user, err := uc.Register(context.Background(), "  Amit@Example.COM ", "pass123", "Amit")
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "amit@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if created == nil || created.Name != "Amit" {
		t.Errorf("user not passed to repo: %+v", created)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	uc := NewAuthUsecase(&mockUserRepo{}, "secret", time.Hour)
	for _, args := range [][3]string{
		{"", "pass", "name"},
		{"a@b.c", "", "name"},
		{"a@b.c", "pass", ""},
	} {
		if _, err := uc.Register(context.Background(), args[0], args[1], args[2]); err == nil {
			t.Errorf("Register(%q, %q, %q) accepted", args[0], args[1], args[2])
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{Email: email}, nil
		},
	}
	uc := NewAuthUsecase(repo, "secret", time.Hour)

	if _, err := uc.Register(context.Background(), "a@b.c", "pass", "name"); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := &mockUserRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{ID: "u1", Email: email, Password: "pass123", Name: "Amit"}, nil
		},
	}
	uc := NewAuthUsecase(repo, "secret", time.Hour)

	token, user, err := uc.Login(context.Background(), "amit@example.com", "pass123")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" {
		t.Errorf("user = %+v", user)
	}

	claims, err := jwt.ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "amit@example.com" || claims.Name != "Amit" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &mockUserRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == "known@example.com" {
				return &entity.User{ID: "u1", Email: email, Password: "right"}, nil
			}
			return nil, sql.ErrNoRows
		},
	}
	uc := NewAuthUsecase(repo, "secret", time.Hour)

	if _, _, err := uc.Login(context.Background(), "known@example.com", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, err := uc.Login(context.Background(), "unknown@example.com", "whatever"); err == nil {
		t.Error("unknown user accepted")
	}
	if _, _, err := uc.Login(context.Background(), "", ""); err == nil {
		t.Error("empty credentials accepted")
	}
}

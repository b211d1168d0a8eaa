package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasktracker/internal/apperr"
	"tasktracker/internal/models"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeUserRepo) UpdateRefresh(_ context.Context, id int64, token string, expiresAt time.Time) error {
	u, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	u.RefreshRevoked = false
	return nil
}

func (f *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) RotateRefresh(_ context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error) {
	u, err := f.GetByRefreshToken(context.Background(), oldToken)
	if err != nil || u.RefreshRevoked {
		return nil, apperr.ErrNotFound
	}
	u.RefreshToken = &newToken
	u.RefreshExpiresAt = &expiresAt
	return u, nil
}

func TestRegisterHashesAndStores(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, NewAuthService())

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("registered user has no id")
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if !NewAuthService().CheckPassword(user.PasswordHash, "hunter22") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, NewAuthService())

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "Mallory", "alice@example.com", "different")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second Register error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterBlankPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, NewAuthService())
	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "  "); !apperr.IsValidation(err) {
		t.Fatalf("Register error = %v, want validation error", err)
	}
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	auth := NewAuthService()
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if auth.CheckPassword(hash, "battery staple") {
		t.Error("wrong password accepted")
	}
	if !auth.CheckPassword(hash, "correct horse") {
		t.Error("right password rejected")
	}
}

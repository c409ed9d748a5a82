package service

import (
	"context"
	"io"
	"testing"
	"time"

	identityerrors "innkeep/internal/identity/errors"
	"innkeep/pkg/auth"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-signing-secret"

type mockOwnerRepository struct {
	createFn      func(ctx context.Context, owner *model.Owner) error
	findByEmailFn func(ctx context.Context, email string) (*model.Owner, error)
	findByIDFn    func(ctx context.Context, id string) (*model.Owner, error)
}

func (m *mockOwnerRepository) Create(ctx context.Context, owner *model.Owner) error {
	if m.createFn != nil {
		return m.createFn(ctx, owner)
	}
	owner.ID = "64f1a2b3c4d5e6f7a8b9c0d1"
	return nil
}

func (m *mockOwnerRepository) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, identityerrors.ErrNotFound
}

func (m *mockOwnerRepository) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, identityerrors.ErrNotFound
}

func testService(repo *mockOwnerRepository) IdentityService {
	return NewIdentityService(&config.Config{
		JWTSecret:  testSecret,
		AccessTTL:  time.Hour,
		BcryptCost: bcrypt.MinCost,
		Log:        logger.New(logger.Config{Output: io.Discard}),
	}, repo)
}

func validRegistration() *model.Registration {
	return &model.Registration{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: "correct horse battery",
	}
}

func TestRegister(t *testing.T) {
	var stored *model.Owner
	repo := &mockOwnerRepository{
		createFn: func(ctx context.Context, owner *model.Owner) error {
			owner.ID = "64f1a2b3c4d5e6f7a8b9c0d1"
			stored = owner
			return nil
		},
	}
	svc := testService(repo)

	owner, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if owner.ID == "" {
		t.Error("expected an owner id")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse battery" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockOwnerRepository{
		createFn: func(ctx context.Context, owner *model.Owner) error {
			return identityerrors.ErrEmailTaken
		},
	}
	svc := testService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := testService(&mockOwnerRepository{})

	tests := []struct {
		name      string
		mutate    func(r *model.Registration)
		wantField string
	}{
		{"missing name", func(r *model.Registration) { r.Name = "" }, "Name"},
		{"bad email", func(r *model.Registration) { r.Email = "nope" }, "Email"},
		{"short password", func(r *model.Registration) { r.Password = "short" }, "Password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := validRegistration()
			tc.mutate(reg)
			_, err := svc.Register(context.Background(), reg)
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := appErr.Details[tc.wantField]; !ok {
				t.Errorf("details must name the offending field %q, got %v", tc.wantField, appErr.Details)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	repo := &mockOwnerRepository{
		findByEmailFn: func(ctx context.Context, email string) (*model.Owner, error) {
			return &model.Owner{
				ID:           "64f1a2b3c4d5e6f7a8b9c0d1",
				Email:        email,
				PasswordHash: string(hash),
			}, nil
		},
	}
	svc := testService(repo)

	session, err := svc.Login(context.Background(), &model.Credentials{
		Email:    "grace@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := auth.ParseAccessToken(testSecret, session.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.OwnerID != "64f1a2b3c4d5e6f7a8b9c0d1" {
		t.Errorf("token carries wrong owner id: %s", claims.OwnerID)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session must expire in the future")
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)

	unknownEmail := &mockOwnerRepository{}
	wrongPassword := &mockOwnerRepository{
		findByEmailFn: func(ctx context.Context, email string) (*model.Owner, error) {
			return &model.Owner{ID: "64f1a2b3c4d5e6f7a8b9c0d1", Email: email, PasswordHash: string(hash)}, nil
		},
	}

	for name, repo := range map[string]*mockOwnerRepository{
		"unknown email":  unknownEmail,
		"wrong password": wrongPassword,
	} {
		t.Run(name, func(t *testing.T) {
			svc := testService(repo)
			_, err := svc.Login(context.Background(), &model.Credentials{
				Email:    "grace@example.com",
				Password: "not the password",
			})
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if appErr.Message != "Invalid email or password" {
				t.Errorf("login failures must not reveal which part was wrong, got %q", appErr.Message)
			}
		})
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	identityerrors "innkeep/internal/identity/errors"
	"innkeep/internal/identity/repository"
	"innkeep/pkg/auth"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService handles owner account registration and login. Login
// failures are deliberately indistinguishable: an unknown email and a
// wrong password produce the same error.
type IdentityService interface {
	Register(ctx context.Context, registration *model.Registration) (*model.Owner, error)
	Login(ctx context.Context, credentials *model.Credentials) (*model.Session, error)
}

type identityService struct {
	cfg      *config.Config
	repo     repository.OwnerRepository
	validate *validator.Validate
}

func NewIdentityService(cfg *config.Config, repo repository.OwnerRepository) IdentityService {
	return &identityService{
		cfg:      cfg,
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *identityService) Register(ctx context.Context, registration *model.Registration) (*model.Owner, error) {
	registration.Name = sanitizer.NormalizeName(registration.Name)
	registration.Email = sanitizer.NormalizeEmail(registration.Email)
	registration.Phone = sanitizer.NormalizePhone(registration.Phone)

	if err := s.validate.Struct(registration); err != nil {
		return nil, translateValidation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	owner := &model.Owner{
		Name:         registration.Name,
		Email:        registration.Email,
		Phone:        registration.Phone,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, owner); err != nil {
		if errors.Is(err, identityerrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, apperrors.Internal("Failed to create owner", err)
	}

	s.cfg.Log.Info("Owner registered", "owner_id", owner.ID)
	return owner, nil
}

func (s *identityService) Login(ctx context.Context, credentials *model.Credentials) (*model.Session, error) {
	credentials.Email = sanitizer.NormalizeEmail(credentials.Email)

	if err := s.validate.Struct(credentials); err != nil {
		return nil, translateValidation(err)
	}

	owner, err := s.repo.FindByEmail(ctx, credentials.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to look up owner", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(credentials.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, expiresAt, err := auth.NewAccessToken(s.cfg.JWTSecret, owner.ID, owner.Email, s.cfg.AccessTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue access token", err)
	}

	return &model.Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		OwnerID:     owner.ID,
	}, nil
}

func translateValidation(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Validation(err.Error(), nil)
	}

	details := make(map[string]any, len(validationErrs))
	var fields []string
	for _, fe := range validationErrs {
		details[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
		fields = append(fields, fe.Field())
	}
	return apperrors.Validation(
		fmt.Sprintf("Invalid fields: %s", strings.Join(fields, ", ")),
		details,
	)
}

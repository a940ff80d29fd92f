package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
)

const minPasswordLength = 8

type AccountService struct {
	accounts AccountStore
	hash     func(string) ([]byte, error)
	log      zerolog.Logger
}

func NewAccountService(accounts AccountStore, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		hash:     security.HashPassword,
		log:      log,
	}
}

// WithHasher replaces the password hasher, e.g. with cheaper argon2
// parameters in tests.
func (s *AccountService) WithHasher(hash func(string) ([]byte, error)) *AccountService {
	s.hash = hash
	return s
}

type CreateAccountInput struct {
	Email           string
	Password        string
	Name            string
	Role            string
	ServiceCategory string
	Status          string
}

func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (models.Account, error) {
	email := NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return models.Account{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return models.Account{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Account{}, apperr.Invalid("name", "is required")
	}
	role := models.AccountRole(input.Role)
	if !role.Valid() {
		return models.Account{}, apperr.Invalid("role", "must be admin or staff")
	}
	category, err := parseOptionalCategory(input.ServiceCategory)
	if err != nil {
		return models.Account{}, err
	}
	status := models.AccountStatusActive
	if input.Status != "" {
		status = models.AccountStatus(input.Status)
		if !status.Valid() {
			return models.Account{}, apperr.Invalid("status", "must be active or inactive")
		}
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return models.Account{}, err
	}

	created, err := s.accounts.Create(ctx, models.Account{
		Email:           email,
		PasswordHash:    hash,
		Name:            name,
		Role:            role,
		ServiceCategory: category,
		Status:          status,
	})
	if err != nil {
		return models.Account{}, classify("create account", err)
	}

	s.log.Info().Int64("account_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return created, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	return accounts, nil
}

// UpdateAccountInput holds a partial update. Nil fields are not changed;
// ClearServiceCategory removes the category.
type UpdateAccountInput struct {
	Email                *string
	Password             *string
	Name                 *string
	Role                 *string
	ServiceCategory      *string
	ClearServiceCategory bool
	Status               *string
}

func (s *AccountService) Update(ctx context.Context, id int64, input UpdateAccountInput) (models.Account, error) {
	var patch models.AccountPatch

	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return models.Account{}, err
		}
		patch.Email = &email
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return models.Account{}, err
		}
		hash, err := s.hash(*input.Password)
		if err != nil {
			return models.Account{}, err
		}
		patch.PasswordHash = hash
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.Account{}, apperr.Invalid("name", "must not be blank")
		}
		patch.Name = &name
	}
	if input.Role != nil {
		role := models.AccountRole(*input.Role)
		if !role.Valid() {
			return models.Account{}, apperr.Invalid("role", "must be admin or staff")
		}
		patch.Role = &role
	}
	if input.ClearServiceCategory {
		patch.ClearCategory = true
	} else if input.ServiceCategory != nil {
		category, err := parseOptionalCategory(*input.ServiceCategory)
		if err != nil {
			return models.Account{}, err
		}
		patch.ServiceCategory = category
		patch.ClearCategory = category == nil
	}
	if input.Status != nil {
		status := models.AccountStatus(*input.Status)
		if !status.Valid() {
			return models.Account{}, apperr.Invalid("status", "must be active or inactive")
		}
		patch.Status = &status
	}

	updated, err := s.accounts.Update(ctx, id, patch)
	if err != nil {
		return models.Account{}, classify("update account", err)
	}

	s.log.Info().
		Int64("account_id", updated.ID).
		Bool("password_changed", patch.PasswordHash != nil).
		Str("status", string(updated.Status)).
		Msg("account updated")
	return updated, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Invalid("email", "is required")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return apperr.Invalid("email", "is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Invalid("password", "must be at least 8 characters")
	}
	return nil
}

// parseOptionalCategory maps "" to no category.
func parseOptionalCategory(value string) (*models.ServiceCategory, error) {
	if value == "" {
		return nil, nil
	}
	category := models.ServiceCategory(value)
	if !category.Valid() {
		return nil, apperr.Invalid("serviceCategory", "must be DJ, Videographer or Photographer")
	}
	return &category, nil
}

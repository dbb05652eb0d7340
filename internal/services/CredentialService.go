package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/storage"
	"falci/internal/structures"
	"fmt"
	"sort"
	"time"

	"github.com/gookit/validate"
	"golang.org/x/crypto/bcrypt"
)

type CredentialServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type CredentialService struct {
	store  storage.AdapterInterface
	logger providers.Logger
	cost   int
	now    func() time.Time
}

func NewCredentialService(conf *structures.Config, store storage.AdapterInterface, logger providers.Logger) CredentialServiceInterface {
	cost := conf.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{store: store, logger: logger, cost: cost, now: time.Now}
}

func (cs *CredentialService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := validateRequest(&models.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cs.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{Fields: []string{"password"}, Reason: "too long"}
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Version:      models.UserRecordVersion,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    cs.now().UnixMilli(),
	}

	var existing models.User
	err = cs.store.Update(ctx, models.UserKey(email), &existing, func(found bool) (any, error) {
		if found {
			return nil, ErrDuplicateEmail
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	cs.logger.Infof(providers.TypeApp, "Registered user %s", email)
	return user, nil
}

func (cs *CredentialService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := validateRequest(&models.LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	var user models.User
	err := cs.store.Get(ctx, models.UserKey(email), &user)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err = user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptRecord, models.UserKey(email), err)
	}

	if !passwordMatches(&user, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func passwordMatches(user *models.User, password string) bool {
	if user.IsLegacy() {
		return subtle.ConstantTimeCompare([]byte(user.Pass), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// validateRequest runs the struct's validate tags and reports every failing field.
func validateRequest(req any) error {
	v := validate.Struct(req)
	if v.Validate() {
		return nil
	}
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

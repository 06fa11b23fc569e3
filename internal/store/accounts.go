package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) (*GormAccountRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormAccountRepository{db: db}, nil
}

// CreateAccount inserts a new account, assigning an ID when missing. Emails
// are stored lower-cased; a second account with the same email yields
// ErrDuplicate.
func (r *GormAccountRepository) CreateAccount(ctx context.Context, account Account) (Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = normalizeEmail(account.Email)

	model := toAccountModel(account)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Account{}, ErrDuplicate
		}
		return Account{}, fmt.Errorf("create account: %w", err)
	}

	return model.toDomain(), nil
}

func (r *GormAccountRepository) GetAccount(ctx context.Context, id string) (Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return Account{}, translateNotFound(err)
	}

	return model.toDomain(), nil
}

func (r *GormAccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&model).Error
	if err != nil {
		return Account{}, translateNotFound(err)
	}

	return model.toDomain(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankAccount, error) {
	var account registry.BankAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByClient finds all accounts of a client
func (r *GormBankAccountRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]registry.BankAccount, error) {
	var accounts []registry.BankAccount
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("principal DESC, created_at ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindPrincipal finds the client's principal account, if any
func (r *GormBankAccountRepository) FindPrincipal(ctx context.Context, clientID uuid.UUID) (*registry.BankAccount, error) {
	var account registry.BankAccount
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND principal", clientID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds all accounts matching the filter
func (r *GormBankAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankAccount, error) {
	var accounts []registry.BankAccount
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.BankAccount{}), filter, true)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates an account. When the account is principal,
// siblings are demoted in the same transaction so the partial unique
// index never fires on a promotion.
func (r *GormBankAccountRepository) Save(ctx context.Context, account *registry.BankAccount) error {
	if !account.Principal {
		return r.db.WithContext(ctx).Save(account).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&registry.BankAccount{}).
			Where("client_id = ? AND principal AND id <> ?", account.ClientID, account.ID).
			Update("principal", false).Error; err != nil {
			return err
		}
		return tx.Save(account).Error
	})
}

// Delete removes an account
func (r *GormBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.BankAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts accounts matching the filter
func (r *GormBankAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.BankAccount{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBankAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("bank_name ILIKE ? OR number LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "bank_code":
			query = query.Where("bank_code = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "principal":
			query = query.Where("principal = ?", value)
		}
	}

	if paginate {
		field := ValidateSortField(filter.OrderBy, BankAccountSortFields, "created_at")
		dir := ValidateSortOrder(filter.OrderDir)
		query = query.Order(field + " " + dir)

		if filter.PageSize > 0 {
			offset := (filter.Page - 1) * filter.PageSize
			if offset < 0 {
				offset = 0
			}
			query = query.Offset(offset).Limit(filter.PageSize)
		}
	}

	return query
}

// Ensure GormBankAccountRepository implements BankAccountRepository
var _ registry.BankAccountRepository = (*GormBankAccountRepository)(nil)

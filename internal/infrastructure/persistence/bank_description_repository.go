package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBankDescriptionRepository implements BankDescriptionRepository using GORM
type GormBankDescriptionRepository struct {
	db *gorm.DB
}

// NewGormBankDescriptionRepository creates a new GormBankDescriptionRepository
func NewGormBankDescriptionRepository(db *gorm.DB) *GormBankDescriptionRepository {
	return &GormBankDescriptionRepository{db: db}
}

// FindByID finds a description by its ID
func (r *GormBankDescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankDescription, error) {
	var desc registry.BankDescription
	if err := r.db.WithContext(ctx).First(&desc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &desc, nil
}

// FindActiveByBankID finds the active description for a bank identifier
func (r *GormBankDescriptionRepository) FindActiveByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	var desc registry.BankDescription
	if err := r.db.WithContext(ctx).
		Where("bank_id = ? AND active", bankID).
		First(&desc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &desc, nil
}

// FindLatestByBankID finds the most recently updated description for a
// bank identifier regardless of the active flag
func (r *GormBankDescriptionRepository) FindLatestByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	var desc registry.BankDescription
	if err := r.db.WithContext(ctx).
		Where("bank_id = ?", bankID).
		Order("updated_at DESC").
		First(&desc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &desc, nil
}

// FindByBankID finds all descriptions for a bank identifier
func (r *GormBankDescriptionRepository) FindByBankID(ctx context.Context, bankID string) ([]registry.BankDescription, error) {
	var descs []registry.BankDescription
	if err := r.db.WithContext(ctx).
		Where("bank_id = ?", bankID).
		Order("updated_at DESC").
		Find(&descs).Error; err != nil {
		return nil, err
	}
	return descs, nil
}

// FindActiveByNormalizedName finds the active description whose
// normalized bank name matches. Normalization strips a trailing
// " (NNN)" code suffix and lowercases, mirroring registry.NormalizeBankName.
func (r *GormBankDescriptionRepository) FindActiveByNormalizedName(ctx context.Context, normalized string) (*registry.BankDescription, error) {
	var desc registry.BankDescription
	if err := r.db.WithContext(ctx).
		Where("active AND lower(trim(regexp_replace(bank_name, '\\s*\\(\\d+\\)\\s*$', ''))) = ?", normalized).
		First(&desc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &desc, nil
}

// FindAll finds all descriptions matching the filter
func (r *GormBankDescriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankDescription, error) {
	var descs []registry.BankDescription
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.BankDescription{}), filter, true)
	if err := query.Find(&descs).Error; err != nil {
		return nil, err
	}
	return descs, nil
}

// Save creates or updates a description
func (r *GormBankDescriptionRepository) Save(ctx context.Context, description *registry.BankDescription) error {
	return r.db.WithContext(ctx).Save(description).Error
}

// ActivateExclusively activates the given description and deactivates
// every sibling with the same bank identifier in one transaction. The
// target row is locked first so two concurrent activations serialize
// and the partial unique index on (bank_id) WHERE active never trips.
func (r *GormBankDescriptionRepository) ActivateExclusively(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*registry.BankDescription, error) {
	var desc registry.BankDescription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&desc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&registry.BankDescription{}).
			Where("bank_id = ? AND active AND id <> ?", desc.BankID, desc.ID).
			Updates(map[string]interface{}{"active": false, "updated_by": updatedBy}).Error; err != nil {
			return err
		}

		if !desc.Active {
			if err := desc.Activate(updatedBy); err != nil {
				return err
			}
		}
		return tx.Save(&desc).Error
	})
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

// Delete removes a description
func (r *GormBankDescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.BankDescription{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts descriptions matching the filter
func (r *GormBankDescriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.BankDescription{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBankDescriptionRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("bank_name ILIKE ? OR display_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "bank_id":
			query = query.Where("bank_id = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "has_description":
			if value == true {
				query = query.Where("description <> ''")
			} else {
				query = query.Where("description = ''")
			}
		}
	}

	if paginate {
		field := ValidateSortField(filter.OrderBy, BankDescriptionSortFields, "updated_at")
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

// Ensure GormBankDescriptionRepository implements BankDescriptionRepository
var _ registry.BankDescriptionRepository = (*GormBankDescriptionRepository)(nil)

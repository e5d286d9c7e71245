package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	var client registry.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByCPF finds a client by normalized CPF
func (r *GormClientRepository) FindByCPF(ctx context.Context, cpf string) (*registry.Client, error) {
	var client registry.Client
	if err := r.db.WithContext(ctx).First(&client, "cpf = ?", registry.OnlyDigits(cpf)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAll finds all clients matching the filter
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Client, error) {
	var clients []registry.Client
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.Client{}), filter, true)
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *registry.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete removes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts clients matching the filter
func (r *GormClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.Client{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR cpf LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("full_name ILIKE ?", "%"+fmt.Sprint(value)+"%")
		case "cpf":
			query = query.Where("cpf = ?", registry.OnlyDigits(fmt.Sprint(value)))
		case "city":
			query = query.Where("city ILIKE ?", "%"+fmt.Sprint(value)+"%")
		case "uf":
			query = query.Where("uf = ?", value)
		case "elderly":
			query = query.Where("elderly = ?", value)
		case "created_after":
			query = query.Where("created_at >= ?", value)
		case "created_before":
			query = query.Where("created_at <= ?", value)
		}
	}

	if paginate {
		field := ValidateSortField(filter.OrderBy, ClientSortFields, "created_at")
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

// Ensure GormClientRepository implements ClientRepository
var _ registry.ClientRepository = (*GormClientRepository)(nil)

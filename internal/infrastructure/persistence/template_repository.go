package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/document"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Template, error) {
	var tpl document.Template
	if err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// FindByName finds a template by its unique name
func (r *GormTemplateRepository) FindByName(ctx context.Context, name string) (*document.Template, error) {
	var tpl document.Template
	if err := r.db.WithContext(ctx).First(&tpl, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// FindAll finds all templates matching the filter
func (r *GormTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Template, error) {
	var templates []document.Template
	query := r.applyFilter(r.db.WithContext(ctx).Model(&document.Template{}), filter, true)
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, template *document.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete removes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&document.Template{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts templates matching the filter
func (r *GormTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&document.Template{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if paginate {
		field := ValidateSortField(filter.OrderBy, TemplateSortFields, "name")
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

// Ensure GormTemplateRepository implements TemplateRepository
var _ document.TemplateRepository = (*GormTemplateRepository)(nil)

// GormPetitionRepository implements PetitionRepository using GORM
type GormPetitionRepository struct {
	db *gorm.DB
}

// NewGormPetitionRepository creates a new GormPetitionRepository
func NewGormPetitionRepository(db *gorm.DB) *GormPetitionRepository {
	return &GormPetitionRepository{db: db}
}

// FindByID finds a petition by its ID
func (r *GormPetitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Petition, error) {
	var p document.Petition
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByClient finds all petitions of a client
func (r *GormPetitionRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]document.Petition, error) {
	var petitions []document.Petition
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&petitions).Error; err != nil {
		return nil, err
	}
	return petitions, nil
}

// FindAll finds all petitions matching the filter
func (r *GormPetitionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Petition, error) {
	var petitions []document.Petition
	query := r.applyFilter(r.db.WithContext(ctx).Model(&document.Petition{}), filter, true)
	if err := query.Find(&petitions).Error; err != nil {
		return nil, err
	}
	return petitions, nil
}

// Save creates or updates a petition
func (r *GormPetitionRepository) Save(ctx context.Context, petition *document.Petition) error {
	return r.db.WithContext(ctx).Save(petition).Error
}

// Delete removes a petition
func (r *GormPetitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&document.Petition{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts petitions matching the filter
func (r *GormPetitionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&document.Petition{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPetitionRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "template_id":
			query = query.Where("template_id = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		}
	}

	if paginate {
		field := ValidateSortField(filter.OrderBy, PetitionSortFields, "created_at")
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

// Ensure GormPetitionRepository implements PetitionRepository
var _ document.PetitionRepository = (*GormPetitionRepository)(nil)

package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"induohouse/internal/model"
	"induohouse/internal/pagination"
)

// PropertyFilter narrows a listing search. Zero-valued fields are ignored;
// present fields are AND-composed.
type PropertyFilter struct {
	City         string
	PropertyType model.PropertyType
	UserID       uint
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
}

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Save(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uint) (*model.Property, error)
	FindByIDWithImages(ctx context.Context, id uint) (*model.Property, error)
	FindWithImagesByIDs(ctx context.Context, ids []uint) ([]model.Property, error)
	Delete(ctx context.Context, property *model.Property) error
	Search(ctx context.Context, filter PropertyFilter, page pagination.Request) ([]model.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository builds a GORM-backed repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Save(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// FindByID loads a listing with its owner, without images.
func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Preload("User").First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByIDWithImages loads a listing with its owner and sort-ordered images.
func (r *propertyRepository) FindByIDWithImages(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindWithImagesByIDs loads full listings for the given ids; order is not
// guaranteed, callers join the result back onto their own ordering.
func (r *propertyRepository) FindWithImagesByIDs(ctx context.Context, ids []uint) ([]model.Property, error) {
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id IN ?", ids).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// Delete removes a listing; property_images cascade via the FK constraint.
func (r *propertyRepository) Delete(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Delete(property).Error
}

// Search returns one page of listings matching the filter plus the total
// match count.
func (r *propertyRepository) Search(ctx context.Context, filter PropertyFilter, page pagination.Request) ([]model.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Property{})
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []model.Property
	err := query.
		Order(page.OrderClause()).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func applyFilter(query *gorm.DB, filter PropertyFilter) *gorm.DB {
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	return query
}

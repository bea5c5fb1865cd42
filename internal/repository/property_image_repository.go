package repository

import (
	"context"

	"gorm.io/gorm"

	"induohouse/internal/model"
)

// PropertyImageRepository defines persistence operations for listing images.
type PropertyImageRepository interface {
	Create(ctx context.Context, image *model.PropertyImage) error
	Save(ctx context.Context, image *model.PropertyImage) error
	FindByID(ctx context.Context, id uint) (*model.PropertyImage, error)
	FindByPropertyOrdered(ctx context.Context, propertyID uint) ([]model.PropertyImage, error)
	CountByProperty(ctx context.Context, propertyID uint) (int64, error)
	ClearPrimary(ctx context.Context, propertyID uint) error
	Delete(ctx context.Context, image *model.PropertyImage) error
	// WithTransaction runs fn against a transactional copy of the repository,
	// keeping multi-step primary-flag shuffles all-or-nothing.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PropertyImageRepository) error) error
}

type propertyImageRepository struct {
	db *gorm.DB
}

// NewPropertyImageRepository builds a GORM-backed repository.
func NewPropertyImageRepository(db *gorm.DB) PropertyImageRepository {
	return &propertyImageRepository{db: db}
}

func (r *propertyImageRepository) Create(ctx context.Context, image *model.PropertyImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *propertyImageRepository) Save(ctx context.Context, image *model.PropertyImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *propertyImageRepository) FindByID(ctx context.Context, id uint) (*model.PropertyImage, error) {
	var image model.PropertyImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *propertyImageRepository) FindByPropertyOrdered(ctx context.Context, propertyID uint) ([]model.PropertyImage, error) {
	var images []model.PropertyImage
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("sort_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *propertyImageRepository) CountByProperty(ctx context.Context, propertyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	return count, err
}

// ClearPrimary drops the primary flag on every image of the property.
func (r *propertyImageRepository) ClearPrimary(ctx context.Context, propertyID uint) error {
	return r.db.WithContext(ctx).Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Update("is_primary", false).Error
}

func (r *propertyImageRepository) Delete(ctx context.Context, image *model.PropertyImage) error {
	return r.db.WithContext(ctx).Delete(image).Error
}

func (r *propertyImageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PropertyImageRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &propertyImageRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

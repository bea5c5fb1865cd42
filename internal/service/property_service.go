package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"induohouse/internal/cache"
	"induohouse/internal/errors"
	"induohouse/internal/model"
	"induohouse/internal/pagination"
	"induohouse/internal/repository"
	"induohouse/internal/storage"
)

const (
	propertyCacheTTL = 5 * time.Minute
	maxImageSize     = 5 * 1024 * 1024
)

// PropertyInput carries the fields accepted when creating a listing.
type PropertyInput struct {
	Title           string
	Description     string
	Price           decimal.Decimal
	Area            decimal.Decimal
	City            string
	Street          string
	PostalCode      string
	NumberOfRooms   *int
	Floor           *int
	TotalFloors     *int
	TransactionType model.TransactionType
	PropertyType    model.PropertyType
}

// PropertyPatch carries a partial update; nil fields are left untouched.
type PropertyPatch struct {
	Title           *string
	Description     *string
	Price           *decimal.Decimal
	Area            *decimal.Decimal
	City            *string
	Street          *string
	PostalCode      *string
	NumberOfRooms   *int
	Floor           *int
	TotalFloors     *int
	TransactionType *model.TransactionType
	PropertyType    *model.PropertyType
}

// ImageUpload describes one uploaded file.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// PropertyService orchestrates listing use cases and enforces ownership.
// Existence is always checked before ownership so probing a foreign id
// cannot reveal whether it exists.
type PropertyService interface {
	Create(ctx context.Context, input PropertyInput, ownerID uint) (*model.Property, error)
	GetByID(ctx context.Context, id uint) (*model.Property, error)
	Search(ctx context.Context, filter repository.PropertyFilter, page pagination.Request) (*pagination.Page[model.Property], error)
	UpdatePatch(ctx context.Context, patch PropertyPatch, propertyID, callerID uint) (*model.Property, error)
	Delete(ctx context.Context, propertyID, callerID uint) error
	AddImage(ctx context.Context, propertyID uint, upload ImageUpload, isPrimary bool, callerID uint) (*model.PropertyImage, error)
	DeleteImage(ctx context.Context, propertyID, imageID, callerID uint) error
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	imageRepo    repository.PropertyImageRepository
	userRepo     repository.UserRepository
	fileStorage  storage.FileStorage
	cache        *cache.Client
}

// NewPropertyService creates a new listing service.
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	imageRepo repository.PropertyImageRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	cache *cache.Client,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		imageRepo:    imageRepo,
		userRepo:     userRepo,
		fileStorage:  fileStorage,
		cache:        cache,
	}
}

func (s *propertyService) cacheKey(id uint) string {
	return fmt.Sprintf("property:%d", id)
}

// Create persists a new listing for the owner. Status is forced to ACTIVE
// regardless of input.
func (s *propertyService) Create(ctx context.Context, input PropertyInput, ownerID uint) (*model.Property, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}

	property := &model.Property{
		UserID:          owner.ID,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		Area:            input.Area,
		City:            input.City,
		Street:          input.Street,
		PostalCode:      input.PostalCode,
		NumberOfRooms:   input.NumberOfRooms,
		Floor:           input.Floor,
		TotalFloors:     input.TotalFloors,
		TransactionType: input.TransactionType,
		PropertyType:    input.PropertyType,
		Status:          model.StatusActive,
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	property.User = *owner
	property.Images = []model.PropertyImage{}
	return property, nil
}

// GetByID loads a listing with its owner and images, via the read cache.
func (s *propertyService) GetByID(ctx context.Context, id uint) (*model.Property, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Property
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	property, err := s.propertyRepo.FindByIDWithImages(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("load property: %w", err)
	}

	if payload, err := json.Marshal(property); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, propertyCacheTTL)
	}
	return property, nil
}

// Search returns one page of listings matching the filter. The page query
// itself selects bare rows; a second query resolves full detail (owner and
// images) for exactly the ids on the page, joined back in page order.
func (s *propertyService) Search(ctx context.Context, filter repository.PropertyFilter, page pagination.Request) (*pagination.Page[model.Property], error) {
	properties, total, err := s.propertyRepo.Search(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	if len(properties) == 0 {
		return pagination.NewPage([]model.Property{}, page, total), nil
	}

	ids := make([]uint, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}

	full, err := s.propertyRepo.FindWithImagesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load property details: %w", err)
	}

	byID := make(map[uint]model.Property, len(full))
	for _, p := range full {
		byID[p.ID] = p
	}

	enriched := make([]model.Property, 0, len(properties))
	for _, p := range properties {
		if detail, ok := byID[p.ID]; ok {
			enriched = append(enriched, detail)
		}
	}

	return pagination.NewPage(enriched, page, total), nil
}

// UpdatePatch applies the non-nil fields of the patch to the caller's listing.
func (s *propertyService) UpdatePatch(ctx context.Context, patch PropertyPatch, propertyID, callerID uint) (*model.Property, error) {
	property, err := s.loadOwned(ctx, propertyID, callerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.Description != nil {
		property.Description = *patch.Description
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.Area != nil {
		property.Area = *patch.Area
	}
	if patch.City != nil {
		property.City = *patch.City
	}
	if patch.Street != nil {
		property.Street = *patch.Street
	}
	if patch.PostalCode != nil {
		property.PostalCode = *patch.PostalCode
	}
	if patch.NumberOfRooms != nil {
		property.NumberOfRooms = patch.NumberOfRooms
	}
	if patch.Floor != nil {
		property.Floor = patch.Floor
	}
	if patch.TotalFloors != nil {
		property.TotalFloors = patch.TotalFloors
	}
	if patch.TransactionType != nil {
		property.TransactionType = *patch.TransactionType
	}
	if patch.PropertyType != nil {
		property.PropertyType = *patch.PropertyType
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, fmt.Errorf("save property: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(propertyID))

	return s.propertyRepo.FindByIDWithImages(ctx, propertyID)
}

// Delete removes the caller's listing; its images cascade.
func (s *propertyService) Delete(ctx context.Context, propertyID, callerID uint) error {
	property, err := s.loadOwned(ctx, propertyID, callerID)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, property); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(propertyID))
	return nil
}

// AddImage validates and stores an upload for the caller's listing. The first
// image ever added becomes primary regardless of the flag; an explicit primary
// demotes every existing image inside one transaction.
func (s *propertyService) AddImage(ctx context.Context, propertyID uint, upload ImageUpload, isPrimary bool, callerID uint) (*model.PropertyImage, error) {
	if _, err := s.loadOwned(ctx, propertyID, callerID); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(upload.ContentType, "image/") || upload.Size > maxImageSize {
		return nil, errors.ErrInvalidFile
	}

	url, err := s.fileStorage.Save(ctx, upload.FileName, upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	var image *model.PropertyImage
	err = s.imageRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.PropertyImageRepository) error {
		count, err := repo.CountByProperty(ctx, propertyID)
		if err != nil {
			return err
		}

		primary := isPrimary || count == 0
		if primary {
			if err := repo.ClearPrimary(ctx, propertyID); err != nil {
				return err
			}
		}

		image = &model.PropertyImage{
			PropertyID: propertyID,
			URL:        url,
			IsPrimary:  primary,
			SortOrder:  int(count),
		}
		return repo.Create(ctx, image)
	})
	if err != nil {
		// The record never landed; drop the stored bytes again.
		_ = s.fileStorage.Delete(ctx, url)
		return nil, fmt.Errorf("save image: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(propertyID))
	return image, nil
}

// DeleteImage removes an image from the caller's listing. Deleting the primary
// image promotes the lowest-sort-order survivor inside the same transaction.
func (s *propertyService) DeleteImage(ctx context.Context, propertyID, imageID, callerID uint) error {
	if _, err := s.loadOwned(ctx, propertyID, callerID); err != nil {
		return err
	}

	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrImageNotFound
		}
		return fmt.Errorf("load image: %w", err)
	}
	// Tamper check: the image must belong to the listing in the path.
	if image.PropertyID != propertyID {
		return errors.ErrImageNotFound
	}

	err = s.imageRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.PropertyImageRepository) error {
		if err := repo.Delete(ctx, image); err != nil {
			return err
		}
		if !image.IsPrimary {
			return nil
		}
		remaining, err := repo.FindByPropertyOrdered(ctx, propertyID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		next := remaining[0]
		next.IsPrimary = true
		return repo.Save(ctx, &next)
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	if err := s.fileStorage.Delete(ctx, image.URL); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(propertyID))
	return nil
}

// loadOwned loads a listing and verifies the caller owns it, in that order.
func (s *propertyService) loadOwned(ctx context.Context, propertyID, callerID uint) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("load property: %w", err)
	}
	if property.UserID != callerID {
		return nil, errors.ErrForbidden
	}
	return property, nil
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of deal a listing offers.
type TransactionType string

const (
	TransactionSale TransactionType = "SALE"
	TransactionRent TransactionType = "RENT"
)

// PropertyType represents the kind of real estate being listed.
type PropertyType string

const (
	PropertyApartment PropertyType = "APARTMENT"
	PropertyHouse     PropertyType = "HOUSE"
	PropertyLand      PropertyType = "LAND"
)

// PropertyStatus represents the lifecycle state of a listing.
// Only ACTIVE is assigned today; the enum leaves room for SOLD/RENTED/INACTIVE.
type PropertyStatus string

const (
	StatusActive PropertyStatus = "ACTIVE"
)

// Property represents a real-estate listing owned by a single user.
type Property struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Title           string          `json:"title" gorm:"size:255;not null"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Area            decimal.Decimal `json:"area" gorm:"type:decimal(8,2);not null"`
	City            string          `json:"city" gorm:"size:100;not null;index"`
	Street          string          `json:"street,omitempty" gorm:"size:255"`
	PostalCode      string          `json:"postal_code,omitempty" gorm:"size:10"`
	NumberOfRooms   *int            `json:"number_of_rooms,omitempty"`
	Floor           *int            `json:"floor,omitempty"`
	TotalFloors     *int            `json:"total_floors,omitempty"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null"`
	PropertyType    PropertyType    `json:"property_type" gorm:"type:varchar(50);not null;index"`
	Status          PropertyStatus  `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;index:idx_properties_created_at,sort:desc"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null"`

	// Relations. User keeps a real JSON key so the owner survives the cache
	// round trip; sensitive user fields are excluded on the User struct itself.
	User   User            `json:"user" gorm:"foreignKey:UserID"`
	Images []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Property.
func (Property) TableName() string {
	return "properties"
}

// PrimaryImageURL returns the URL of the primary image, or "" if none.
func (p *Property) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	return ""
}

package model

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User represents a registered account.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName       string    `json:"first_name,omitempty" gorm:"size:100"`
	LastName        string    `json:"last_name,omitempty" gorm:"size:100"`
	PhoneNumber     string    `json:"phone_number,omitempty" gorm:"size:20"`
	Role            UserRole  `json:"role,omitempty" gorm:"size:20;not null;default:'USER'"`
	IsEmailVerified bool      `json:"is_email_verified" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

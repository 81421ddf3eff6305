package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// User accounts authenticate with email OR phone plus a password; at
// least one of the two identifiers must be set.
type User struct {
	ID             uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          *string  `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone          *string  `gorm:"uniqueIndex" json:"phone,omitempty"`
	HashedPassword string   `gorm:"not null" json:"-"`
	FullName       string   `json:"full_name,omitempty"`
	Role           UserRole `gorm:"type:varchar(20);default:'customer'" json:"role"`
	IsActive       bool     `gorm:"default:true" json:"is_active"`

	Orders []Order `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// RefreshToken lets a login session be invalidated server-side: logout
// revokes the row, refresh rotates it.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	IsRevoked bool      `gorm:"default:false"`
	CreatedAt time.Time
	RevokedAt *time.Time
}

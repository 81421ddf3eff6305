package models

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Type        string `json:"type,omitempty"` // Ladies, Gents, Kids, ...
	Description string `json:"description,omitempty"`

	DisplayOrder int  `gorm:"default:0" json:"display_order"`
	IsActive     bool `gorm:"default:true" json:"is_active"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

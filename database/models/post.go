package models

import (
	"time"
)

type Post struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Title         string `gorm:"type:varchar(255);not null"`
	FeaturedImage string `gorm:"type:varchar(500)"`
	Content       string `gorm:"type:text;not null"`
	OwnerID       uint   `gorm:"not null;index"`
	Owner         User   `gorm:"foreignKey:OwnerID"`
	Category      string `gorm:"type:varchar(100)"`
	Active        bool   `gorm:"default:false;not null"`
	Slug          string `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

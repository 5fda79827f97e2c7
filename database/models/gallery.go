package models

import (
	"time"
)

type Gallery struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"foreignKey:UserID"`
	Name      string `gorm:"type:varchar(100);not null"`
	Continent string `gorm:"type:varchar(100)"`
	Place     string `gorm:"type:varchar(255)"`
	Active    bool   `gorm:"default:false;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Images []GalleryImage `gorm:"foreignKey:GalleryID"`
}

type GalleryImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GalleryID uint   `gorm:"not null;index"`
	ImageURL  string `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

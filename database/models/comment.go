package models

import (
	"time"
)

type Comment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	PostID    uint   `gorm:"not null;index"`
	Post      Post   `gorm:"foreignKey:PostID"`
	Email     string `gorm:"type:varchar(255);not null"`
	Content   string `gorm:"type:text;not null"`
	Approved  bool   `gorm:"default:false;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

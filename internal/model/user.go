package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string      `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	Portfolios   []Portfolio `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

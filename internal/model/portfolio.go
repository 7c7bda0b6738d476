package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Portfolio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StudentName string    `gorm:"size:100;not null" json:"student_name"`
	StudentID   string    `gorm:"size:50;not null" json:"student_id"`
	Email       string    `gorm:"size:100;not null" json:"email"`
	Title       string    `gorm:"size:255;not null" json:"portfolio_title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	ProjectURL  string    `gorm:"type:text" json:"project_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"upload_date"`
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

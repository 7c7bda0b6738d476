package repository

import (
	"context"

	"github.com/Daniel-code69/Portfolio-hub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *model.Portfolio) error
	FindAll(ctx context.Context) ([]model.Portfolio, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Portfolio, error)
	Update(ctx context.Context, portfolio *model.Portfolio) error
	// DeleteOwned removes the portfolio only when it belongs to userID and
	// reports the number of rows affected, so a miss and an ownership mismatch
	// are indistinguishable to the caller.
	DeleteOwned(ctx context.Context, id uuid.UUID, userID uuid.UUID) (int64, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *model.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *portfolioRepository) FindAll(ctx context.Context) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&portfolios).Error; err != nil {
		return nil, err
	}

	return portfolios, nil
}

func (r *portfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&portfolio).Error; err != nil {
		return nil, err
	}

	return &portfolio, nil
}

func (r *portfolioRepository) Update(ctx context.Context, portfolio *model.Portfolio) error {
	return r.db.WithContext(ctx).Save(portfolio).Error
}

func (r *portfolioRepository) DeleteOwned(ctx context.Context, id uuid.UUID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Portfolio{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

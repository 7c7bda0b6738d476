package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Daniel-code69/Portfolio-hub/internal/dto"
	"github.com/Daniel-code69/Portfolio-hub/internal/model"
	"github.com/Daniel-code69/Portfolio-hub/internal/repository"
	"github.com/Daniel-code69/Portfolio-hub/pkg/apperror"
	"github.com/Daniel-code69/Portfolio-hub/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.PortfolioRequest, files []*multipart.FileHeader) (uuid.UUID, error)
	List(ctx context.Context) ([]dto.PortfolioResponse, error)
	GetForOwner(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*model.Portfolio, error)
	Update(ctx context.Context, id uuid.UUID, callerID uuid.UUID, req dto.PortfolioRequest) error
	Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error
	Search(ctx context.Context, query string) ([]dto.PortfolioSearchHit, error)
}

type portfolioService struct {
	portfolioRepo repository.PortfolioRepository
	fileStorage   storage.FileStorage
	search        SearchService
}

// NewPortfolioService wires the catalog. search may be nil, which disables indexing.
func NewPortfolioService(portfolioRepo repository.PortfolioRepository, fileStorage storage.FileStorage, search SearchService) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		fileStorage:   fileStorage,
		search:        search,
	}
}

func (s *portfolioService) Create(ctx context.Context, userID uuid.UUID, req dto.PortfolioRequest, files []*multipart.FileHeader) (uuid.UUID, error) {
	if err := validateRequired(req); err != nil {
		return uuid.Nil, err
	}

	portfolio := &model.Portfolio{
		UserID:      userID,
		StudentName: strings.TrimSpace(req.StudentName),
		StudentID:   strings.TrimSpace(req.StudentID),
		Email:       strings.TrimSpace(req.Email),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		ProjectURL:  strings.TrimSpace(req.ProjectURL),
	}

	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return uuid.Nil, err
	}

	if err := s.fileStorage.Save(portfolio.ID.String(), files); err != nil {
		// Attachments are best-effort; the record itself is already committed.
		log.Printf("failed to save attachments for portfolio %s: %v", portfolio.ID, err)
	}

	// Re-read with the owner preloaded so the search index carries the username.
	if created, err := s.portfolioRepo.FindByID(ctx, portfolio.ID); err == nil {
		s.indexPortfolio(ctx, created)
	}

	return portfolio.ID, nil
}

func (s *portfolioService) List(ctx context.Context) ([]dto.PortfolioResponse, error) {
	portfolios, err := s.portfolioRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PortfolioResponse, 0, len(portfolios))
	for _, p := range portfolios {
		responses = append(responses, dto.PortfolioResponse{
			ID:            p.ID,
			OwnerID:       p.UserID,
			OwnerUsername: p.User.Username,
			StudentName:   p.StudentName,
			StudentID:     p.StudentID,
			Email:         p.Email,
			Title:         p.Title,
			Description:   p.Description,
			Category:      p.Category,
			ProjectURL:    p.ProjectURL,
			UploadDate:    p.CreatedAt.Format("2006-01-02 15:04:05"),
			Files:         s.fileStorage.List(p.ID.String()),
		})
	}

	return responses, nil
}

func (s *portfolioService) GetForOwner(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if portfolio.UserID != callerID {
		return nil, fmt.Errorf("you do not own this portfolio: %w", apperror.ErrForbidden)
	}

	return portfolio, nil
}

func (s *portfolioService) Update(ctx context.Context, id uuid.UUID, callerID uuid.UUID, req dto.PortfolioRequest) error {
	if err := validateRequired(req); err != nil {
		return err
	}

	portfolio, err := s.GetForOwner(ctx, id, callerID)
	if err != nil {
		return err
	}

	portfolio.StudentName = strings.TrimSpace(req.StudentName)
	portfolio.StudentID = strings.TrimSpace(req.StudentID)
	portfolio.Email = strings.TrimSpace(req.Email)
	portfolio.Title = strings.TrimSpace(req.Title)
	portfolio.Description = strings.TrimSpace(req.Description)
	portfolio.Category = strings.TrimSpace(req.Category)
	portfolio.ProjectURL = strings.TrimSpace(req.ProjectURL)

	if err := s.portfolioRepo.Update(ctx, portfolio); err != nil {
		return err
	}

	s.indexPortfolio(ctx, portfolio)

	return nil
}

func (s *portfolioService) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error {
	rows, err := s.portfolioRepo.DeleteOwned(ctx, id, callerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Deliberately does not reveal whether the record exists.
		return apperror.New(http.StatusForbidden, "portfolio not found or you do not have permission", apperror.ErrForbidden)
	}

	// Row removal stands even when the directory cleanup fails.
	if err := s.fileStorage.RemoveAll(id.String()); err != nil {
		log.Printf("failed to remove attachment directory for portfolio %s: %v", id, err)
	}

	if s.search != nil {
		if err := s.search.DeletePortfolio(id.String()); err != nil {
			log.Printf("failed to deindex portfolio %s: %v", id, err)
		}
	}

	return nil
}

func (s *portfolioService) Search(ctx context.Context, query string) ([]dto.PortfolioSearchHit, error) {
	if s.search == nil {
		return []dto.PortfolioSearchHit{}, nil
	}
	return s.search.Search(ctx, query)
}

func (s *portfolioService) indexPortfolio(ctx context.Context, portfolio *model.Portfolio) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPortfolio(portfolio); err != nil {
		log.Printf("failed to index portfolio %s: %v", portfolio.ID, err)
	}
}

func validateRequired(req dto.PortfolioRequest) error {
	required := map[string]string{
		"student_name":    req.StudentName,
		"student_id":      req.StudentID,
		"email":           req.Email,
		"portfolio_title": req.Title,
		"category":        req.Category,
	}

	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required: %w", field, apperror.ErrInvalidInput)
		}
	}

	return nil
}

package service

import (
	"context"
	"encoding/json"
	"html"
	"log"
	"strings"

	"github.com/Daniel-code69/Portfolio-hub/internal/dto"
	"github.com/Daniel-code69/Portfolio-hub/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexPortfolio(portfolio *model.Portfolio) error
	DeletePortfolio(id string) error
	Search(ctx context.Context, query string) ([]dto.PortfolioSearchHit, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}

	s.initIndex()

	return s
}

func (s *meiliSearchService) initIndex() {
	filterableAttrs := []string{"category", "owner_username"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("portfolios").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update portfolios filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index("portfolios").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update portfolios sortable attributes: %v", err)
	}
}

type meiliPortfolioDoc struct {
	ID            string `json:"id"`
	Title         string `json:"portfolio_title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	StudentName   string `json:"student_name"`
	OwnerUsername string `json:"owner_username"`
	CreatedAt     int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPortfolio(portfolio *model.Portfolio) error {
	doc := meiliPortfolioDoc{
		ID:            portfolio.ID.String(),
		Title:         portfolio.Title,
		Description:   s.cleanContentForIndex(portfolio.Description),
		Category:      portfolio.Category,
		StudentName:   portfolio.StudentName,
		OwnerUsername: portfolio.User.Username,
		CreatedAt:     portfolio.CreatedAt.Unix(),
	}

	_, err := s.client.Index("portfolios").AddDocuments([]meiliPortfolioDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeletePortfolio(id string) error {
	_, err := s.client.Index("portfolios").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) Search(ctx context.Context, query string) ([]dto.PortfolioSearchHit, error) {
	resp, err := s.client.Index("portfolios").Search(query, &meilisearch.SearchRequest{
		Limit: 50,
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var docs []meiliPortfolioDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	hits := make([]dto.PortfolioSearchHit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, dto.PortfolioSearchHit{
			ID:            doc.ID,
			Title:         doc.Title,
			Category:      doc.Category,
			StudentName:   doc.StudentName,
			OwnerUsername: doc.OwnerUsername,
		})
	}

	return hits, nil
}

func strPtr(s string) *string {
	return &s
}

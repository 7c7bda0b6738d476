package dto

import "github.com/google/uuid"

type PortfolioRequest struct {
	StudentName string `json:"student_name" form:"student_name" binding:"required,max=100"`
	StudentID   string `json:"student_id" form:"student_id" binding:"required,max=50"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Title       string `json:"portfolio_title" form:"portfolio_title" binding:"required,max=255"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category" binding:"required,max=50"`
	ProjectURL  string `json:"project_url" form:"project_url"`
}

type PortfolioResponse struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"user_id"`
	OwnerUsername string    `json:"owner_username"`
	StudentName   string    `json:"student_name"`
	StudentID     string    `json:"student_id"`
	Email         string    `json:"email"`
	Title         string    `json:"portfolio_title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ProjectURL    string    `json:"project_url"`
	UploadDate    string    `json:"upload_date"`
	Files         []string  `json:"files"`
}

type PortfolioSearchHit struct {
	ID            string `json:"id"`
	Title         string `json:"portfolio_title"`
	Category      string `json:"category"`
	StudentName   string `json:"student_name"`
	OwnerUsername string `json:"owner_username"`
}

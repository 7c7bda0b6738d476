package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/Daniel-code69/Portfolio-hub/internal/dto"
	"github.com/Daniel-code69/Portfolio-hub/internal/service"
	"github.com/Daniel-code69/Portfolio-hub/pkg/apperror"
	"github.com/Daniel-code69/Portfolio-hub/pkg/response"
	"github.com/Daniel-code69/Portfolio-hub/pkg/storage"
	"github.com/Daniel-code69/Portfolio-hub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PortfolioHandler struct {
	service     service.PortfolioService
	fileStorage storage.FileStorage
}

func NewPortfolioHandler(portfolioService service.PortfolioService, fileStorage storage.FileStorage) *PortfolioHandler {
	return &PortfolioHandler{
		service:     portfolioService,
		fileStorage: fileStorage,
	}
}

func (h *PortfolioHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"UserID": c.GetString("user_id"),
	})
}

func (h *PortfolioHandler) Upload(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.PortfolioRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": validator.FormatValidationError(err)})
		return
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid multipart form"})
		return
	}

	var fileHeaders []*multipart.FileHeader
	if form != nil {
		fileHeaders = form.File["files"]
	}

	id, err := h.service.Create(c.Request.Context(), userID, req, fileHeaders)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Portfolio uploaded successfully!",
		"id":      id,
	})
}

func (h *PortfolioHandler) List(c *gin.Context) {
	portfolios, err := h.service.List(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

func (h *PortfolioHandler) Search(c *gin.Context) {
	hits, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, hits)
}

func (h *PortfolioHandler) Download(c *gin.Context) {
	path, name, err := h.fileStorage.Resolve(c.Param("portfolio_id"), c.Param("filename"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.FileAttachment(path, name)
}

func (h *PortfolioHandler) ShowEdit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	portfolio, err := h.service.GetForOwner(c.Request.Context(), id, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.HTML(http.StatusOK, "edit_portfolio.html", gin.H{
		"Portfolio": portfolio,
	})
}

func (h *PortfolioHandler) Edit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	var req dto.PortfolioRequest
	if err := c.ShouldBind(&req); err != nil {
		portfolio, getErr := h.service.GetForOwner(c.Request.Context(), id, userID)
		if getErr != nil {
			response.ResponseError(c, getErr)
			return
		}
		c.HTML(http.StatusOK, "edit_portfolio.html", gin.H{
			"Portfolio": portfolio,
			"Error":     validator.FormatValidationError(err),
		})
		return
	}

	if err := h.service.Update(c.Request.Context(), id, userID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "Portfolio not found or you do not have permission.",
		})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Portfolio not found or you do not have permission.",
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Portfolio deleted."})
}

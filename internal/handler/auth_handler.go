package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Daniel-code69/Portfolio-hub/internal/dto"
	"github.com/Daniel-code69/Portfolio-hub/internal/middleware"
	"github.com/Daniel-code69/Portfolio-hub/internal/service"
	"github.com/Daniel-code69/Portfolio-hub/pkg/apperror"
	"github.com/Daniel-code69/Portfolio-hub/pkg/response"
	"github.com/Daniel-code69/Portfolio-hub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthHandler struct {
	service       service.AuthService
	rdb           *redis.Client
	rateLimit     time.Duration
	sessionMaxAge int
}

func NewAuthHandler(authService service.AuthService, rdb *redis.Client, rateLimit time.Duration, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       authService,
		rdb:           rdb,
		rateLimit:     rateLimit,
		sessionMaxAge: int(sessionTTL.Seconds()),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *AuthHandler) Register(c *gin.Context) {
	if !h.allow(c, "register") {
		return
	}

	var input dto.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Error":    validator.FormatValidationError(err),
			"Username": c.PostForm("username"),
		})
		return
	}

	if _, err := h.service.Register(c.Request.Context(), input); err != nil {
		if errors.Is(err, apperror.ErrDuplicateUsername) || errors.Is(err, apperror.ErrInvalidInput) {
			c.HTML(http.StatusOK, "register.html", gin.H{
				"Error":    err.Error(),
				"Username": input.Username,
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/login?registered=1")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Registered": c.Query("registered") != "",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.allow(c, "login") {
		return
	}

	var input dto.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error":    validator.FormatValidationError(err),
			"Username": c.PostForm("username"),
		})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"Error":    "Incorrect username or password.",
				"Username": input.Username,
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	h.setSessionCookie(c, resp.AccessToken)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// APIRegister is the JSON counterpart of the registration form.
func (h *AuthHandler) APIRegister(c *gin.Context) {
	if !h.allow(c, "register") {
		return
	}

	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

// APILogin returns the session token in the body for programmatic clients
// and still sets the cookie for browser-based ones.
func (h *AuthHandler) APILogin(c *gin.Context) {
	if !h.allow(c, "login") {
		return
	}

	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setSessionCookie(c, resp.AccessToken)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, h.sessionMaxAge, "/", "", false, true)
}

func (h *AuthHandler) allow(c *gin.Context, action string) bool {
	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.rdb, c.ClientIP(), action, h.rateLimit)
	if err != nil {
		response.ResponseError(c, err)
		return false
	}
	if !allowed {
		if ttl, ttlErr := service.GetRateLimitTTL(c.Request.Context(), h.rdb, c.ClientIP(), action); ttlErr == nil && ttl > 0 {
			c.Header("Retry-After", strconv.Itoa(int((ttl+time.Second-1)/time.Second)))
		}
		response.ResponseError(c, apperror.ErrRateLimitExceeded)
		return false
	}
	return true
}

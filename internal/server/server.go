package server

import (
	"log"
	"strings"
	"time"

	"github.com/Daniel-code69/Portfolio-hub/internal/config"
	"github.com/Daniel-code69/Portfolio-hub/internal/handler"
	"github.com/Daniel-code69/Portfolio-hub/internal/middleware"
	"github.com/Daniel-code69/Portfolio-hub/internal/repository"
	"github.com/Daniel-code69/Portfolio-hub/internal/service"
	"github.com/Daniel-code69/Portfolio-hub/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	fileStorage, err := storage.NewDiskStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize attachment storage: %v", err)
	}

	// Catalog search is optional; without a configured host indexing is a no-op.
	var searchSvc service.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = service.NewMeiliSearchService(meiliClient)
	}

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc, redisClient, cfg.RateLimitAuth, cfg.JWTTTL)

	portfolioSvc := service.NewPortfolioService(portfolioRepo, fileStorage, searchSvc)
	portfolioHandler := handler.NewPortfolioHandler(portfolioSvc, fileStorage)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.MaxMultipartMemory = cfg.MaxUploadMB << 20

	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "./web/static")

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// Public routes
	router.GET("/", authMiddleware.OptionalAuth(), portfolioHandler.Index)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/portfolios", portfolioHandler.List)
	router.GET("/portfolios/search", portfolioHandler.Search)
	router.GET("/download/:portfolio_id/:filename", portfolioHandler.Download)

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.APIRegister)
		api.POST("/login", authHandler.APILogin)
	}

	// Protected routes
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/upload", portfolioHandler.Upload)
		protected.GET("/portfolio/:id/edit", portfolioHandler.ShowEdit)
		protected.POST("/portfolio/:id/edit", portfolioHandler.Edit)
		protected.POST("/portfolio/:id/delete", portfolioHandler.Delete)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

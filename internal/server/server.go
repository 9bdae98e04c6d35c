package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/config"
	"github.com/terzahh/samara-repository-sub000/internal/handler"
	"github.com/terzahh/samara-repository-sub000/internal/middleware"
	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
	"github.com/terzahh/samara-repository-sub000/internal/service"
	"github.com/terzahh/samara-repository-sub000/pkg/mailer"
	"github.com/terzahh/samara-repository-sub000/pkg/storage"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewResetTokenRepository(db)
	researchRepo := repository.NewResearchRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	downloadRepo := repository.NewDownloadRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	contactRepo := repository.NewContactRepository(db)

	docStorage, err := storage.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}

	var imageStorage storage.ImageStorage
	if cfg.CloudinaryCloudName != "" {
		imageStorage, err = storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	}

	var searchSvc service.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = service.NewMeiliSearchService(meiliClient)
	}

	var mail mailer.Mailer
	if cfg.SMTPEmail != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	tokenTTL := time.Duration(cfg.JWTTTLMinutes) * time.Minute

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)

	// A nil *redis.Client must stay a nil interface for the limiter check.
	var resetLimiter service.RateLimiter
	if redisClient != nil {
		resetLimiter = redisClient
	}
	resetSvc := service.NewPasswordResetService(userRepo, resetRepo, mail, resetLimiter, cfg.AppBaseURL, cfg.IsDevelopment(), cfg.RateLimitReset)

	downloadSvc := service.NewDownloadService(redisClient, downloadRepo, researchRepo)
	if redisClient != nil {
		go downloadSvc.StartSyncWorker(context.Background())
	}

	researchSvc := service.NewResearchService(researchRepo, departmentRepo, docStorage, searchSvc, downloadSvc)
	commentSvc := service.NewCommentService(commentRepo, researchRepo)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, researchRepo)
	departmentSvc := service.NewDepartmentService(departmentRepo)
	adminSvc := service.NewAdminService(userRepo, researchRepo, commentRepo, downloadRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	contactSvc := service.NewContactService(contactRepo)
	profileSvc := service.NewProfileService(userRepo, imageStorage)
	backupSvc := service.NewBackupService(db)

	authHandler := handler.NewAuthHandler(authSvc, resetSvc)
	researchHandler := handler.NewResearchHandler(researchSvc, searchSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, settingsSvc, contactSvc, backupSvc)
	siteHandler := handler.NewSiteHandler(settingsSvc, contactSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.GET("/reset-password/verify", authHandler.VerifyResetToken)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api.GET("/departments", departmentHandler.List)
	api.GET("/settings", siteHandler.Settings)
	api.POST("/contact", siteHandler.SubmitContact)

	// Research reads serve guests too; the handler narrows what they see.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/research", researchHandler.List)
		public.GET("/research/search", researchHandler.Search)
		public.GET("/research/:id", researchHandler.Get)
		public.GET("/research/:id/download", researchHandler.Download)
		public.GET("/research/:id/comments", commentHandler.ListByResearch)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)

		protected.POST("/research/:id/comments", commentHandler.Create)

		protected.GET("/bookmarks", bookmarkHandler.List)
		protected.POST("/research/:id/bookmark", bookmarkHandler.Add)
		protected.DELETE("/research/:id/bookmark", bookmarkHandler.Remove)

		// Uploads: admins and department heads (the service checks scope).
		uploaders := protected.Group("")
		uploaders.Use(authMiddleware.RequireRoles(model.RoleAdmin, model.RoleDepartmentHead))
		{
			uploaders.POST("/research", researchHandler.Upload)
			uploaders.PUT("/research/:id", researchHandler.Update)
			uploaders.DELETE("/research/:id", researchHandler.Delete)
		}

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/users/pending", adminHandler.ListPendingDepartmentHeads)
			adminGroup.PUT("/users/:id/approve", adminHandler.ApproveDepartmentHead)

			adminGroup.POST("/departments", departmentHandler.Create)
			adminGroup.PUT("/departments/:id", departmentHandler.Update)
			adminGroup.DELETE("/departments/:id", departmentHandler.Delete)

			adminGroup.GET("/stats", adminHandler.Stats)
			adminGroup.PUT("/settings", adminHandler.UpdateSettings)

			adminGroup.GET("/contact-messages", adminHandler.ListContactMessages)
			adminGroup.PUT("/contact-messages/:id/read", adminHandler.MarkContactMessageRead)

			adminGroup.GET("/backup", adminHandler.ExportBackup)
			adminGroup.POST("/restore", adminHandler.RestoreBackup)
		}
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

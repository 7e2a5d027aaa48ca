package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"studyshare/internal/auth"
	"studyshare/internal/cache"
	"studyshare/internal/config"
	"studyshare/internal/db"
	"studyshare/internal/handler"
	"studyshare/internal/model"
	"studyshare/internal/repository"
	"studyshare/internal/router"
	"studyshare/internal/service"
	"studyshare/internal/storage"
)

// @title StudyShare API
// @version 1.0
// @description Study material sharing API with moderated uploads, announcements, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Material{},
		&model.Announcement{},
		&model.BookRequest{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("file store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	materialRepo := repository.NewMaterialRepository(gormDB)
	announcementRepo := repository.NewAnnouncementRepository(gormDB)
	bookRequestRepo := repository.NewBookRequestRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.AdminEmail)
	userService := service.NewUserService(userRepo, cacheClient)
	bookService := service.NewBookService(bookRepo, fileStore, cacheClient)
	materialService := service.NewMaterialService(materialRepo, bookRepo, fileStore, cacheClient)
	announcementService := service.NewAnnouncementService(announcementRepo)
	bookRequestService := service.NewBookRequestService(bookRequestRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)
	materialHandler := handler.NewMaterialHandler(materialService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	bookRequestHandler := handler.NewBookRequestHandler(bookRequestService)
	fileHandler := handler.NewFileHandler(fileStore)

	// Register routes
	router.Register(
		e,
		cfg,
		userService,
		authHandler,
		userHandler,
		bookHandler,
		materialHandler,
		announcementHandler,
		bookRequestHandler,
		fileHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

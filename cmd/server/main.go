package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "induohouse/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"induohouse/internal/auth"
	"induohouse/internal/cache"
	"induohouse/internal/config"
	"induohouse/internal/db"
	"induohouse/internal/handler"
	appmw "induohouse/internal/middleware"
	"induohouse/internal/model"
	"induohouse/internal/repository"
	"induohouse/internal/router"
	"induohouse/internal/service"
	"induohouse/internal/storage"
)

// @title InduoHouse API
// @version 1.0
// @description Real-estate listings API with cookie-based JWT authentication, property search and image management.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.PropertyImage{},
			&model.Property{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.PropertyImage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	imageRepo := repository.NewPropertyImageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	fileStorage := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	propertyService := service.NewPropertyService(propertyRepo, imageRepo, userRepo, fileStorage, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	propertyHandler := handler.NewPropertyHandler(propertyService)

	// Register routes
	session := appmw.Session(jwtService, userRepo, cfg.CookieName)
	router.Register(e, cfg, session, authHandler, propertyHandler)

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

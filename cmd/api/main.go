package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coralcms/coral-backend/internal/config"
	"github.com/coralcms/coral-backend/internal/handler"
	"github.com/coralcms/coral-backend/internal/middleware"
	"github.com/coralcms/coral-backend/internal/migration"
	"github.com/coralcms/coral-backend/internal/repository"
	"github.com/coralcms/coral-backend/internal/routes"
	"github.com/coralcms/coral-backend/internal/service"
	pkgcache "github.com/coralcms/coral-backend/pkg/cache"
	pkglogger "github.com/coralcms/coral-backend/pkg/logger"
	pkgredis "github.com/coralcms/coral-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

// @title           Coral Backend API
// @version         1.0
// @description     Content revision and restore engine for the Coral CMS
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglogger.InitStructured(cfg.App.Env)
	zlog := pkglogger.GetLogger()
	zlog.Info().
		Str("env", cfg.App.Env).
		Strs("dotenv", dotenvFiles).
		Msg("starting coral-backend")

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		zlog.Warn().Err(err).Msg("migration warning")
	}

	// Redis (optional: the API degrades to uncached listings without it)
	var cacheService pkgcache.Service
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			zlog.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		} else {
			cacheService = pkgcache.NewService(redisClient)
			zlog.Info().Msg("cache service initialized")
		}
	}

	// Repositories and services
	revisionRepo := repository.NewRevisionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	snapshotSvc := service.NewSnapshotService(revisionRepo)
	restoreSvc := service.NewRestoreService(revisionRepo, documentRepo, snapshotSvc)
	pruneSvc := service.NewPruneService(revisionRepo)

	revisionHandler := handler.NewRevisionHandler(
		snapshotSvc, restoreSvc, pruneSvc, revisionRepo, documentRepo, cacheService)

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Tenant-ID", "X-Actor-ID", "X-Actor-Name", "X-Actor-Role", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		MaxAge:           86400 * time.Second,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Tenant())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "coral-backend",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, revisionHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	zlog.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

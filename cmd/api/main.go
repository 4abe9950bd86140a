package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/circlehub/circlehub-backend/internal/config"
	"github.com/circlehub/circlehub-backend/internal/handler"
	"github.com/circlehub/circlehub-backend/internal/middleware"
	"github.com/circlehub/circlehub-backend/internal/migration"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/circlehub/circlehub-backend/internal/routes"
	"github.com/circlehub/circlehub-backend/internal/service"
	"github.com/circlehub/circlehub-backend/internal/ws"
	pkgjwt "github.com/circlehub/circlehub-backend/pkg/jwt"
	pkglogger "github.com/circlehub/circlehub-backend/pkg/logger"
	pkgredis "github.com/circlehub/circlehub-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func isDevEnv(env string) bool {
	return env == "local" || env == "development" || env == "dev"
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Get().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Get().Warn().Err(err).Msg("redis unavailable, running single-instance")
			redisClient = nil
		} else {
			pkglogger.Get().Info().Msg("connected to redis")
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	convRepo := repository.NewConversationRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)

	// Live connection hub
	hub := ws.NewHub(userRepo, redisClient)
	go hub.Run()

	// Services
	moderationSvc := service.NewModerationService(
		userRepo, violationRepo, adminLogRepo,
		cfg.Moderation.BannedTerms, cfg.Moderation.ViolationThreshold,
	)
	groupSvc := service.NewGroupService(groupRepo, messageRepo, userRepo, moderationSvc, cfg.Retention.Window)
	privateSvc := service.NewPrivateService(convRepo, messageRepo, userRepo, moderationSvc, cfg.Retention.Window)
	receiptSvc := service.NewReceiptService(messageRepo)
	friendSvc := service.NewFriendService(friendRepo, userRepo)
	classroomSvc := service.NewClassroomService(classroomRepo, groupSvc, userRepo)
	adminSvc := service.NewAdminService(userRepo, adminLogRepo, violationRepo)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Handlers
	eventRouter := handler.NewEventRouter(hub, groupSvc, privateSvc, receiptSvc)
	wsHandler := handler.NewWSHandler(hub, eventRouter, userRepo, cfg.Server.AllowedOrigins)
	groupHandler := handler.NewGroupHandler(groupSvc, hub)
	friendHandler := handler.NewFriendHandler(friendSvc, hub)
	classroomHandler := handler.NewClassroomHandler(classroomSvc, hub)
	adminHandler := handler.NewAdminHandler(adminSvc, hub)

	if !isDevEnv(env) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "circlehub-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Token minting stays out of production; real deployments consume
	// identity-provider tokens.
	if isDevEnv(env) {
		authHandler := handler.NewAuthHandler(userRepo, jwtManager)
		router.POST("/api/v1/auth/dev-token", authHandler.DevToken)
	}

	routes.Setup(router, wsHandler, groupHandler, friendHandler, classroomHandler, adminHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Get().Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	pkglogger.Get().Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Get().Error().Err(err).Msg("server shutdown")
	}
	hub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// initDB opens the MySQL connection with sane pool settings
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

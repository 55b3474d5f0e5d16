// Package main runs the career fair platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/config"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/auth"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/companies"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/enrollments"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/fairs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/jobs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/database"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/queue"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/redis"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			LogosBucket:          cfg.AWS.LogosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	store := docstore.NewPostgres(pool)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(store)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Companies and global booths
	companyRepo := companies.NewRepository(store)
	gate := access.NewGate(authRepo, companyRepo)
	companyHandler := companies.NewHandler(companyRepo, authRepo, gate, s3Client, logger)

	// Global job postings
	jobRepo := jobs.NewRepository(store)
	jobHandler := jobs.NewHandler(jobRepo, companyRepo, gate)

	// Fairs and the fair-scoped keyspace
	fairRepo := fairs.NewRepository(store)
	fairHandler := fairs.NewHandler(fairRepo, gate, time.Now, jobQueue, logger)

	// Enrollment orchestration
	enrollmentService := enrollments.NewService(fairRepo, companyRepo, jobRepo, authRepo, gate, jobQueue, logger)
	enrollmentHandler := enrollments.NewHandler(enrollmentService, gate)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public reads. OptionalJWT lets administrators bypass the liveness
	// gate and see invite codes; anonymous callers pass through.
	public := router.Group("")
	public.Use(middleware.OptionalJWT(jwtService))
	{
		public.GET("/fairs", fairHandler.List)
		public.GET("/fairs/:id", fairHandler.Get)
		public.GET("/fairs/:id/status", fairHandler.Status)
		public.GET("/fairs/:id/booths", fairHandler.ListBooths)
		public.GET("/fairs/:id/booths/:boothId", fairHandler.GetBooth)
		public.GET("/fairs/:id/jobs", fairHandler.ListJobs)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireAdmin(), authHandler.List)

		// Companies
		api.POST("/companies", companyHandler.Create)
		api.POST("/companies/join", companyHandler.Join)
		api.GET("/companies/:id", companyHandler.Get)
		api.PUT("/companies/:id", companyHandler.Update)
		api.POST("/companies/:id/representatives", companyHandler.AddRepresentative)
		api.DELETE("/companies/:id/representatives/:userId", companyHandler.RemoveRepresentative)
		api.POST("/companies/:id/refresh-invite-code", companyHandler.RefreshInviteCode)
		api.GET("/companies/:id/booth", companyHandler.GetBooth)
		api.PUT("/companies/:id/booth", companyHandler.UpsertBooth)
		api.POST("/companies/:id/booth/logo", companyHandler.UploadLogo)
		api.GET("/companies/:id/booth/logo-url", companyHandler.LogoDownloadURL)
		api.GET("/companies/:id/fairs", enrollmentHandler.ListFairsForCompany)

		// Global job postings
		api.POST("/companies/:id/jobs", jobHandler.Create)
		api.GET("/companies/:id/jobs", jobHandler.ListByCompany)
		api.PUT("/jobs/:id", jobHandler.Update)
		api.DELETE("/jobs/:id", jobHandler.Delete)

		// Fair lifecycle (admin only)
		api.POST("/fairs", middleware.RequireAdmin(), fairHandler.Create)
		api.PUT("/fairs/:id", middleware.RequireAdmin(), fairHandler.Update)
		api.DELETE("/fairs/:id", middleware.RequireAdmin(), fairHandler.Delete)
		api.POST("/fairs/:id/toggle-status", middleware.RequireAdmin(), fairHandler.ToggleStatus)
		api.POST("/fairs/:id/refresh-invite-code", middleware.RequireAdmin(), fairHandler.RefreshInviteCode)

		// Fair-scoped booth and job writes (admin or company member)
		api.PUT("/fairs/:id/booths/:boothId", fairHandler.UpdateBooth)
		api.POST("/fairs/:id/jobs", fairHandler.CreateJob)
		api.PUT("/fairs/:id/jobs/:jobId", fairHandler.UpdateJob)
		api.DELETE("/fairs/:id/jobs/:jobId", fairHandler.DeleteJob)

		// Enrollment
		api.POST("/fairs/enroll", enrollmentHandler.EnrollByCode)
		api.POST("/fairs/:id/enroll", enrollmentHandler.Enroll)
		api.POST("/fairs/:id/leave", enrollmentHandler.Leave)
		api.GET("/fairs/:id/enrollments", middleware.RequireAdmin(), enrollmentHandler.ListForFair)
		api.DELETE("/fairs/:id/enrollments/:companyId", middleware.RequireAdmin(), enrollmentHandler.Remove)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

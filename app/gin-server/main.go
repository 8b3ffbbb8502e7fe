package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yoockh/roastcv/config"
	"github.com/yoockh/roastcv/internal/api/handlers"
	"github.com/yoockh/roastcv/internal/api/middleware"
	"github.com/yoockh/roastcv/internal/api/routes"
	"github.com/yoockh/roastcv/internal/cache"
	"github.com/yoockh/roastcv/internal/logger"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/providers/llm"
	mongorepo "github.com/yoockh/roastcv/internal/repositories/mongo"
	pgrepo "github.com/yoockh/roastcv/internal/repositories/postgres"
	"github.com/yoockh/roastcv/internal/services"
	"github.com/yoockh/roastcv/internal/storage"
	"github.com/yoockh/roastcv/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	app, err := config.LoadApp()
	if err != nil {
		log.WithError(err).Fatal("config error")
	}

	// MongoDB is required
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB schema/index error")
	}
	db, err := config.MongoDatabase()
	if err != nil {
		log.WithError(err).Fatal("MongoDB database error")
	}
	log.Info("MongoDB connected")

	ctx := context.Background()
	resumes := mongorepo.NewResumeRepo(db)
	opts := []services.Option{
		services.WithProduction(app.Production()),
		services.WithLogger(log),
	}

	// Redis and Postgres are optional
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Warn("Redis unavailable, stats cache disabled")
	} else {
		opts = append(opts, services.WithCache(cache.NewRedisCache(config.RedisClient), app.StatsCacheTTL))
		log.Info("Redis connected")
	}

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Warn("PostgreSQL unavailable, storage audit disabled")
	} else if err := config.MigratePostgres(&models.StorageAudit{}); err != nil {
		log.WithError(err).Warn("PostgreSQL migration failed, storage audit disabled")
	} else {
		opts = append(opts, services.WithAudit(pgrepo.NewAuditRepo(config.PostgresDB)))
		log.Info("PostgreSQL connected")
	}

	var archive handlers.ArchiveQueue
	if app.GCSBucket != "" {
		gcs, err := storage.NewGCSArchiver(ctx, app.GCSBucket)
		if err != nil {
			log.WithError(err).Warn("GCS unavailable, uploads will not be archived")
		} else {
			defer gcs.Close()
			pool := &workers.ArchiveWorkerPool{Archiver: gcs, NumWorkers: 2, Logger: log}
			if err := pool.Start(ctx); err != nil {
				log.WithError(err).Fatal("archive worker start error")
			}
			defer pool.Stop()
			archive = pool
		}
	}

	gemini, err := llm.NewVertexGemini(ctx, llm.VertexConfig{
		ProjectID:       app.VertexProject,
		Location:        app.VertexLocation,
		Model:           app.VertexModel,
		CredentialsFile: app.VertexCredentials,
		Temperature:     0.7,
	})
	if err != nil {
		log.WithError(err).Fatal("Vertex AI init error")
	}
	defer gemini.Close()

	gateway := services.NewGateway(resumes, app.SaveMaxAttempts, app.SaveBackoffBase, log)
	storageSvc := services.NewResumeStorageService(resumes, gateway, services.NewAssembler(), opts...)
	analysisSvc := services.NewAnalysisService(gemini)

	if app.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = app.MaxUploadBytes

	routes.RegisterRoutes(r, routes.Deps{
		Resume:  handlers.NewResumeHandler(storageSvc, analysisSvc, archive, log, app.MaxUploadBytes),
		Admin:   handlers.NewAdminHandler(storageSvc),
		Health:  handlers.NewHealthHandler(storageSvc),
		Limiter: middleware.NewIPRateLimiter(app.UploadRatePerMinute),
	})

	srv := &http.Server{
		Addr:              ":" + app.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", app.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	_ = config.MongoClient.Disconnect(shutdownCtx)
	log.Info("server stopped")
}

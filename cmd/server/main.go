package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/curiomuse/artefact-catalog/internal/config"
	"github.com/curiomuse/artefact-catalog/internal/infra/blob"
	"github.com/curiomuse/artefact-catalog/internal/infra/cache"
	"github.com/curiomuse/artefact-catalog/internal/infra/database"
	mq "github.com/curiomuse/artefact-catalog/internal/infra/queue"
	"github.com/curiomuse/artefact-catalog/internal/infra/tracing"
	"github.com/curiomuse/artefact-catalog/internal/modules/handler"
	"github.com/curiomuse/artefact-catalog/internal/modules/repo"
	"github.com/curiomuse/artefact-catalog/internal/modules/service"
	"github.com/curiomuse/artefact-catalog/internal/server"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//	@title			Artefact Catalog API
//	@version		1.0
//	@description	Data-access layer for the media-artefact catalog: asset upload to object storage and metadata persistence.
//	@BasePath		/api

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "path to an optional config file")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTrace, err := tracing.Init(ctx, cfg.Trace, cfg.App.Name)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return database.NewPostgres(cfg.Database)
	})
	do.Provide(injector, func(i *do.Injector) (*blob.S3Deps, error) {
		return blob.NewS3(ctx, cfg.Storage, logger)
	})
	do.Provide(injector, func(i *do.Injector) (*cache.Redis, error) {
		if !cfg.Redis.Enabled() {
			return nil, nil
		}
		return cache.New(cfg.Redis)
	})
	do.Provide(injector, func(i *do.Injector) (*mq.Publisher, error) {
		if !cfg.Queue.Enabled() {
			return nil, nil
		}
		dial := func() (*amqp.Connection, error) { return amqp.Dial(cfg.Queue.URL) }
		conn, err := dial()
		if err != nil {
			return nil, err
		}
		return mq.NewPublisher(conn, logger, cfg.App.Name, cfg.Queue, dial)
	})
	do.Provide(injector, func(i *do.Injector) (repo.DocumentStore, error) {
		db, err := do.Invoke[*gorm.DB](i)
		if err != nil {
			return nil, err
		}
		return repo.NewDocumentStore(db), nil
	})
	do.Provide(injector, func(i *do.Injector) (service.ArtefactService, error) {
		docs, err := do.Invoke[repo.DocumentStore](i)
		if err != nil {
			return nil, err
		}
		redisCache, err := do.Invoke[*cache.Redis](i)
		if err != nil {
			return nil, err
		}
		publisher, err := do.Invoke[*mq.Publisher](i)
		if err != nil {
			return nil, err
		}
		return service.NewArtefactService(docs, redisCache, publisher, logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (*handler.ArtefactHandler, error) {
		svc, err := do.Invoke[service.ArtefactService](i)
		if err != nil {
			return nil, err
		}
		s3, err := do.Invoke[*blob.S3Deps](i)
		if err != nil {
			return nil, err
		}
		return handler.NewArtefactHandler(svc, s3), nil
	})
	do.Provide(injector, func(i *do.Injector) (*handler.FileHandler, error) {
		s3, err := do.Invoke[*blob.S3Deps](i)
		if err != nil {
			return nil, err
		}
		return handler.NewFileHandler(s3), nil
	})
	do.Provide(injector, func(i *do.Injector) (*gin.Engine, error) {
		artefacts, err := do.Invoke[*handler.ArtefactHandler](i)
		if err != nil {
			return nil, err
		}
		files, err := do.Invoke[*handler.FileHandler](i)
		if err != nil {
			return nil, err
		}
		return server.NewRouter(cfg, logger, artefacts, files), nil
	})

	router, err := do.Invoke[*gin.Engine](injector)
	if err != nil {
		logger.Fatal("wire application", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	if publisher, err := do.Invoke[*mq.Publisher](injector); err == nil && publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
	}
	if redisCache, err := do.Invoke[*cache.Redis](injector); err == nil {
		if err := redisCache.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}
	if db, err := do.Invoke[*gorm.DB](injector); err == nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("close database", zap.Error(err))
			}
		}
	}
	if err := shutdownTrace(shutdownCtx); err != nil {
		logger.Warn("shutdown tracing", zap.Error(err))
	}
}

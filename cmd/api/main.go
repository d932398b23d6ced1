package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-queue/internal/db"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/handlers"
	"github.com/BruksfildServices01/barber-queue/internal/infra/broker"
	"github.com/BruksfildServices01/barber-queue/internal/infra/cache"
	"github.com/BruksfildServices01/barber-queue/internal/infra/push"
	infraRepo "github.com/BruksfildServices01/barber-queue/internal/infra/repository"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/media"
	"github.com/BruksfildServices01/barber-queue/internal/payment"
	"github.com/BruksfildServices01/barber-queue/internal/routes"
	ucAppointment "github.com/BruksfildServices01/barber-queue/internal/usecase/appointment"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
	ucReview "github.com/BruksfildServices01/barber-queue/internal/usecase/review"
	ucStaff "github.com/BruksfildServices01/barber-queue/internal/usecase/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Env)

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	var (
		locker    lock.Locker     = lock.NewLocalLocker()
		viewCache queue.ViewCache = cache.Noop{}
		rdb       redis.UniversalClient
	)
	if cfg.RedisEnabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		locker = lock.NewRedisLock(rdb)
		viewCache = cache.NewQueueCache(rdb, cfg.Redis.QueueCacheTTL)
		log.Info().Msg("redis lock and queue cache enabled")
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-process lock")
	}

	guard := lock.NewGuard(locker, cfg.Scheduling.LockTTL, cfg.Scheduling.LockWait)

	sinks := []audit.Sink{audit.New(db)}

	var events *broker.Publisher
	if cfg.RabbitEnabled() {
		events, err = broker.Dial(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		sinks = append(sinks, events)
	}
	if cfg.PubNubEnabled() {
		sinks = append(sinks, push.NewPubNub(cfg.PubNub))
	}

	dispatcher := audit.NewDispatcher(sinks...)

	var storage media.Storage
	if cfg.StorageEnabled() {
		storage = media.NewS3Storage(cfg.Storage)
	}

	var payments payment.Gateway = payment.Disabled{}
	if cfg.PaymentsEnabled() {
		mp, err := payment.NewMercadoPago(cfg.Payments.MercadoPagoToken, cfg.Payments.NotificationURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure mercadopago")
		}
		payments = mp
	}

	// ======================================================
	// 🚀 HTTP
	// ======================================================
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	queueRepo := infraRepo.NewQueueGormRepository(db)

	routes.RegisterRoutes(r, routes.App{
		DB:       db,
		Config:   cfg,
		Sessions: infraRepo.NewSessionGormRepository(db),
		Queue: ucQueue.Deps{
			Repo:  queueRepo,
			Guard: guard,
			Cache: viewCache,
			Audit: dispatcher,
		},
		Appointments: ucAppointment.Deps{
			Repo:     infraRepo.NewAppointmentGormRepository(db),
			Guard:    guard,
			Audit:    dispatcher,
			Payments: payments,
			Policy: ucAppointment.Policy{
				SlotGranularity: cfg.Scheduling.SlotGranularity,
				CancelWindow:    cfg.Scheduling.CancelWindow,
			},
		},
		Reviews: ucReview.Deps{
			Repo:  infraRepo.NewReviewGormRepository(db),
			Audit: dispatcher,
		},
		Staff: ucStaff.Deps{
			Repo:  infraRepo.NewStaffGormRepository(db),
			Guard: guard,
			Audit: dispatcher,
		},
		Favorites: infraRepo.NewFavoriteGormRepository(db),
		Directory: infraRepo.NewDirectoryGormRepository(db),
		Guard:     guard,
		Audit:     dispatcher,
		Uploader:  handlers.NewUploader(storage, cfg.Storage.MaxSide),
		Ready:     readiness(db, rdb, events),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// esvazia os eventos pendentes antes de fechar os destinos
	dispatcher.Close()
	if events != nil {
		events.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server stopped")
}

// readiness checa as dependências obrigatórias para o /health.
func readiness(db *gorm.DB, rdb redis.UniversalClient, events *broker.Publisher) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		if rdb != nil {
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				return err
			}
		}
		if events != nil {
			return events.Ping()
		}
		return nil
	}
}

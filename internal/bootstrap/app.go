package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"studyboard/internal/app"
	"studyboard/internal/config"
	"studyboard/internal/logging"
	"studyboard/internal/model"
	mysqlClient "studyboard/internal/platform/mysql"
	rabbitmqClient "studyboard/internal/platform/rabbitmq"
	redisClient "studyboard/internal/platform/redis"
	"studyboard/internal/repository"
	"studyboard/internal/worker"
)

type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	AuditWorker *worker.AuditPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("app", cfg.App.Name, "env", cfg.App.Env)
	if cfg.UsesDefaultSecret() {
		logger.Warn("using the built-in development JWT secret; set JWT_SECRET in production")
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		MySQL:     mysqlDB,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}

	if cfg.RabbitMQ.URL == "" {
		logger.Info("rabbitmq url empty, audit events will be dropped")
		return a, nil
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.AuditQueue)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.MQConn = mqConn

	auditRepo := repository.NewAuditEventRepository(mysqlDB)
	auditWorker := worker.NewAuditPersistWorker(mqConn, auditRepo, cfg.RabbitMQ.AuditQueue, logger)
	if err := auditWorker.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}
	a.AuditWorker = auditWorker

	return a, nil
}

// AuditPublisher publishes to the broker when one is connected.
func (a *App) AuditPublisher() app.AuditPublisher {
	if a.MQConn == nil {
		return app.NopPublisher{}
	}
	return rabbitmqClient.NewEventPublisher(a.MQConn, a.Config.RabbitMQ.AuditQueue)
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

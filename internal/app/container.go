// Package app wires configuration, stores and usecases for the server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"maplehr-backend/config"
	v1 "maplehr-backend/internal/delivery/http/v1"
	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/repository"
	"maplehr-backend/internal/usecase"
	"maplehr-backend/pkg/extract"
	"maplehr-backend/pkg/redis"
	"maplehr-backend/pkg/security"
	"maplehr-backend/pkg/security/antivirus"
	"maplehr-backend/pkg/storage"
	"maplehr-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const clamAVTimeout = 30 * time.Second

type Container struct {
	Config *config.Config
	Log    *zap.Logger
	Store  *repository.Store
	Blobs  domain.BlobStore
	Redis  *goredis.Client // nil when UPSTASH_REDIS_URL is unset or unreachable

	Ingestion domain.IngestionUsecase
	Scoring   domain.ScoringUsecase
	Review    domain.ReviewUsecase
	Intake    domain.IntakeUsecase
	Health    usecase.HealthUsecase
	Limiter   *security.UploadLimiter

	scripter goredis.Scripter
}

// New connects every dependency. Redis is optional; the database and blob store are not.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{Config: cfg, Log: log}

	// 1. Relational store
	store, err := repository.Open(ctx, cfg.DBUrl, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.Store = store

	// 2. Blob store
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c.Blobs = blobs

	// 3. Document processing
	extractor, err := extract.New(cfg.UnidocLicenseAPIKey)
	if err != nil {
		store.Close()
		return nil, err
	}
	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		scanner = antivirus.NewChainScanner(antivirus.NewClamAVScanner(cfg.ClamAVAddress, clamAVTimeout))
	} else {
		log.Warn("CLAMAV_ADDRESS not configured - uploads are not scanned for malware")
	}

	// 4. Redis (optional)
	var scripter goredis.Scripter
	var redisHealth usecase.Pinger
	if cfg.UpstashRedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		if err != nil {
			log.Warn("Redis unavailable - upload limiting disabled", zap.Error(err))
		} else {
			c.Redis = client
			scripter = client
			c.scripter = client
			redisHealth = redisPinger{client: client}
		}
	}
	c.Limiter = security.NewUploadLimiter(scripter, cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay)

	// 5. Usecases
	c.Ingestion = usecase.NewIngestionUsecase(store.Applicants, blobs, extractor, scanner,
		usecase.IngestionConfig{Bucket: cfg.ResumeBucket, MaxBytes: cfg.MaxUploadBytes}, log)
	c.Scoring = usecase.NewScoringUsecase(store.Jobs, store.Applicants, store.Matches, blobs, extractor, log)
	c.Review = usecase.NewReviewUsecase(store.Jobs, store.Applicants, store.Matches, blobs, log)
	c.Intake = usecase.NewIntakeUsecase(store.Jobs, store.Applicants, validation.New())
	c.Health = usecase.NewHealthUsecase(store, redisHealth)

	log.Info("Dependencies ready",
		zap.String("database", store.Driver),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("redis", c.Redis != nil),
		zap.Bool("antivirus", scanner != nil),
	)
	return c, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (domain.BlobStore, error) {
	switch cfg.StorageDriver {
	case "local":
		store, err := storage.NewLocalStore(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open local storage: %w", err)
		}
		return store, nil
	case "s3", "":
		client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			WasabiEndpoint:  cfg.WasabiEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want s3 or local)", cfg.StorageDriver)
	}
}

// Router builds the HTTP handler over the container's usecases.
func (c *Container) Router() *gin.Engine {
	return v1.NewRouter(v1.RouterDeps{
		IngestionUC:    c.Ingestion,
		ScoringUC:      c.Scoring,
		ReviewUC:       c.Review,
		HealthUC:       c.Health,
		UploadLimiter:  c.Limiter,
		RateLimitRedis: c.scripter,
		APIRateLimit:   c.Config.APIRateLimitPerMinute,
		MaxUploadBytes: c.Config.MaxUploadBytes,
		FrontendURL:    c.Config.FrontendURL,
		Logger:         c.Log,
	})
}

func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

package resumable

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

const (
	chunkPrefixEnvKey       = "RESUMABLE_CHUNK_PREFIX"
	tempDirEnvKey           = "RESUMABLE_TEMP_DIR"
	backendEnvKey           = "RESUMABLE_BACKEND"
	sweepAfterEnvKey        = "RESUMABLE_SWEEP_AFTER"
	s3BucketEnvKey          = "RESUMABLE_S3_BUCKET"
	s3KeyPrefixEnvKey       = "RESUMABLE_S3_KEY_PREFIX"
	s3RegionEnvKey          = "RESUMABLE_S3_REGION"
	s3AccessKeyIDEnvKey     = "RESUMABLE_S3_ACCESS_KEY_ID"
	s3SecretAccessKeyEnvKey = "RESUMABLE_S3_SECRET_ACCESS_KEY"
	redisURLEnvKey          = "RESUMABLE_REDIS_URL"
	redisKeyPrefixEnvKey    = "RESUMABLE_REDIS_KEY_PREFIX"
	redisTTLEnvKey          = "RESUMABLE_REDIS_TTL"
)

// Secret is a string that is redacted when printed.
type Secret string

// String ...
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "*****"
}

// S3Config ...
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	KeyPrefix       string `yaml:"key_prefix"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey Secret `yaml:"secret_access_key"`
}

// RedisConfig ...
type RedisConfig struct {
	// URL may carry credentials, so it is redacted like a secret.
	URL       Secret        `yaml:"url"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Config describes how a Store is built.
type Config struct {
	ChunkPrefix string `yaml:"chunk_prefix"`
	TempDir     string `yaml:"temp_dir"`
	// Backend is one of "local" (default), "memory", "s3" and "redis".
	Backend string `yaml:"backend"`
	// SweepAfter is how long untouched chunk files are kept before StartSweeper removes them.
	// Zero disables sweeping.
	SweepAfter time.Duration `yaml:"sweep_after"`
	S3         S3Config      `yaml:"s3"`
	Redis      RedisConfig   `yaml:"redis"`
}

// LoadConfig reads the optional YAML file at path and applies the RESUMABLE_* environment overrides.
func LoadConfig(path string, envRepo env.Repository) (Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideString(envRepo, chunkPrefixEnvKey, &cfg.ChunkPrefix)
	overrideString(envRepo, tempDirEnvKey, &cfg.TempDir)
	overrideString(envRepo, backendEnvKey, &cfg.Backend)
	overrideString(envRepo, s3BucketEnvKey, &cfg.S3.Bucket)
	overrideString(envRepo, s3KeyPrefixEnvKey, &cfg.S3.KeyPrefix)
	overrideString(envRepo, s3RegionEnvKey, &cfg.S3.Region)
	overrideString(envRepo, s3AccessKeyIDEnvKey, &cfg.S3.AccessKeyID)
	if v := envRepo.Get(s3SecretAccessKeyEnvKey); v != "" {
		cfg.S3.SecretAccessKey = Secret(v)
	}
	if v := envRepo.Get(redisURLEnvKey); v != "" {
		cfg.Redis.URL = Secret(v)
	}
	overrideString(envRepo, redisKeyPrefixEnvKey, &cfg.Redis.KeyPrefix)
	if err := overrideDuration(envRepo, sweepAfterEnvKey, &cfg.SweepAfter); err != nil {
		return Config{}, err
	}
	if err := overrideDuration(envRepo, redisTTLEnvKey, &cfg.Redis.TTL); err != nil {
		return Config{}, err
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = BackendLocal
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendLocal, BackendMemory:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 backend requires a bucket")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("s3 backend requires a region")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis backend requires a url")
		}
		if c.Redis.TTL < 0 {
			return fmt.Errorf("redis ttl must not be negative")
		}
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}

	if c.SweepAfter < 0 {
		return fmt.Errorf("sweep_after must not be negative")
	}
	return nil
}

// NewFromConfig builds the configured backend and a Store on top of it.
func NewFromConfig(ctx context.Context, cfg Config, logger log.Logger) (*Store, error) {
	var backend storage.Storage
	switch cfg.Backend {
	case BackendLocal, "":
		backend = storage.NewLocal()
	case BackendMemory:
		backend = storage.NewMemory()
	case BackendS3:
		s3Backend, err := storage.NewS3(ctx, storage.S3Params{
			Bucket:          cfg.S3.Bucket,
			KeyPrefix:       cfg.S3.KeyPrefix,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: string(cfg.S3.SecretAccessKey),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create s3 storage: %w", err)
		}
		backend = s3Backend
	case BackendRedis:
		redisBackend, err := storage.NewRedis(ctx, storage.RedisParams{
			URL:       string(cfg.Redis.URL),
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis storage: %w", err)
		}
		backend = redisBackend
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}

	logger.Debugf("Using %s chunk storage", cfg.Backend)
	return New(backend, logger, Options{
		ChunkPrefix: cfg.ChunkPrefix,
		TempDir:     cfg.TempDir,
	}), nil
}

func overrideString(envRepo env.Repository, key string, target *string) {
	if v := envRepo.Get(key); v != "" {
		*target = v
	}
}

func overrideDuration(envRepo env.Repository, key string, target *time.Duration) error {
	v := envRepo.Get(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = d
	return nil
}

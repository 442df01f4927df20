package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bitrise-io/go-resumable/internal"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
	"github.com/redis/go-redis/v9"
)

// RedisParams ...
type RedisParams struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
	// KeyPrefix is prepended to every key, e.g. "resumable:".
	KeyPrefix string
	// TTL expires chunk keys which were not rewritten in time. Zero keeps them until removed.
	TTL time.Duration
}

type redisAPI interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis keeps chunk files as string values. Like S3, chunk paths are mapped to
// keys by their base name and staged uploads are expected on the local filesystem.
type Redis struct {
	client    redisAPI
	keyPrefix string
	ttl       time.Duration
	osProxy   internal.OsProxy
	logger    log.Logger
}

// NewRedis connects to the server at params.URL and checks it with a ping.
func NewRedis(ctx context.Context, params RedisParams, logger log.Logger) (*Redis, error) {
	if params.URL == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}
	if params.TTL < 0 {
		return nil, fmt.Errorf("redis ttl must not be negative")
	}

	opts, err := redis.ParseURL(params.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return newRedis(client, params, internal.RealOS{}, logger), nil
}

func newRedis(client redisAPI, params RedisParams, osProxy internal.OsProxy, logger log.Logger) *Redis {
	return &Redis{
		client:    client,
		keyPrefix: params.KeyPrefix,
		ttl:       params.TTL,
		osProxy:   osProxy,
		logger:    logger,
	}
}

// Key returns the key chunkPath is stored under.
func (r *Redis) Key(chunkPath string) string {
	return r.keyPrefix + filepath.Base(chunkPath)
}

// Exists ...
func (r *Redis) Exists(ctx context.Context, chunkPath string) (bool, error) {
	n, err := r.client.Exists(ctx, r.Key(chunkPath)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Rename stores the content of the locally staged file under the chunk's key and removes the staged copy.
func (r *Redis) Rename(ctx context.Context, srcPath, dstPath string) error {
	file, err := r.osProxy.Open(srcPath)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		return err
	}

	key := r.Key(dstPath)
	r.logger.Debugf("Storing %s (%s) as %s", srcPath, units.HumanSizeWithPrecision(float64(len(data)), 3), key)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return err
	}

	return r.osProxy.Remove(srcPath)
}

// Remove ...
func (r *Redis) Remove(ctx context.Context, chunkPath string) error {
	return r.client.Del(ctx, r.Key(chunkPath)).Err()
}

// Open ...
func (r *Redis) Open(ctx context.Context, chunkPath string) (io.ReadCloser, error) {
	data, err := r.client.Get(ctx, r.Key(chunkPath)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &os.PathError{Op: "open", Path: chunkPath, Err: os.ErrNotExist}
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

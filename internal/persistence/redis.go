package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
)

// Redis is the optional pub/sub connection employee events are fanned out
// on. A nil *Redis means fan-out is disabled.
type Redis struct {
	Client *redis.Client
	// Timeout bounds a single publish. Zero leaves the caller's context alone.
	Timeout time.Duration
}

// NewRedis connects to Redis using the provided configuration. It returns nil
// when Redis is disabled; an unreachable server is logged but not fatal, and
// every command is bounded by cfg.Timeout so mutations never stall on it.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if !cfg.Enabled {
		logger.Info("redis disabled; event fan-out off")
		return nil
	}

	client := redis.NewClient(redisOptions(cfg))

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; events will not be fanned out until it is", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.String("channel", cfg.EventsChannel))
	}

	return &Redis{Client: client, Timeout: cfg.Timeout}
}

// redisOptions maps configuration onto go-redis options. MaxRetries of zero
// disables retries instead of falling back to the library default.
func redisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:                  cfg.Addr,
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ContextTimeoutEnabled: true,
		MaxRetries:            cfg.MaxRetries,
	}
	if cfg.MaxRetries <= 0 {
		opts.MaxRetries = -1
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
		opts.PoolTimeout = cfg.Timeout
	}
	return opts
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping reports whether the event channel's server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

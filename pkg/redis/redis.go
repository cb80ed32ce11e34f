package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// Locker guards short critical sections that span several store round-trips.
type Locker interface {
	// TryLock returns acquired=false when another holder owns key.
	TryLock(ctx context.Context, key string) (unlock func(), acquired bool, err error)
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker returns a SET NX based lock. The ttl bounds how long a crashed holder blocks others.
func NewLocker(c *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: c, ttl: ttl}
}

func (l *redisLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	lockKey := "lock:" + key

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		logger.Error("Failed to acquire redis lock", err, map[string]interface{}{
			"key": lockKey,
		})
		return nil, false, err
	}
	if !ok {
		logger.Debug("Redis lock is held by another request", map[string]interface{}{
			"key": lockKey,
		})
		return nil, false, nil
	}

	unlock := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
			logger.Warn("Failed to release redis lock", map[string]interface{}{
				"key":   lockKey,
				"error": err.Error(),
			})
		}
	}
	return unlock, true, nil
}

type noopLocker struct{}

// NewNoopLocker always grants the lock. Used when Redis is not configured and in tests.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) TryLock(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

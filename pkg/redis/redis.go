package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisPingTimeout = 5 * time.Second

// ICounter is the minimal key-value contract the usage counter needs. Any
// store with get/set/atomic-increment would do; Redis is the chosen backing.
type ICounter interface {
	GetCount(ctx context.Context, key string) (int64, error)
	SetCount(ctx context.Context, key string, value int64) error
	IncrementCount(ctx context.Context, key string) (int64, error)
}

type redisClient struct {
	client *redis.Client
}

func New() ICounter {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) GetCount(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		// A key that was never written counts as zero, not an error.
		return 0, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting count for key %s: %v", key, err))
		return 0, err
	}
	return val, nil
}

func (r *redisClient) SetCount(ctx context.Context, key string, value int64) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting count for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) IncrementCount(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error incrementing count for key %s: %v", key, err))
		return 0, err
	}
	logrus.Debug(fmt.Sprintf("Count for key %s incremented to %d", key, val))
	return val, nil
}

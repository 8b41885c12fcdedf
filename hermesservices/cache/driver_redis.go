package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type DriverRedisConfig struct {
	Host   string
	Number int
	Pass   string
	Port   int
	User   string
	// Prefix is prepended to every key so several applications can share a
	// database.
	Prefix string
}

func NewDriverRedis(config DriverRedisConfig) (Driver, error) {
	return &driverRedis{
		prefix: config.Prefix,
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
			Username: config.User,
			Password: config.Pass,
			DB:       config.Number,
		}),
	}, nil
}

type driverRedis struct {
	prefix string
	client *redis.Client
}

func (driver *driverRedis) key(key string) string {
	return driver.prefix + key
}

func (driver *driverRedis) Get(ctx context.Context, key string) (string, error) {
	result, err := driver.client.Get(ctx, driver.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	return result, err
}

// Set stores value for duration. A zero duration keeps the entry until it is
// deleted.
func (driver *driverRedis) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	return driver.client.Set(ctx, driver.key(key), value, duration).Err()
}

func (driver *driverRedis) Delete(ctx context.Context, key string) error {
	return driver.client.Del(ctx, driver.key(key)).Err()
}

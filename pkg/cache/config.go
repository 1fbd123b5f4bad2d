package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig is the redis section of the application config. NewRedisCache
// fills zero fields from the default tags.
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr" default:"localhost:6379"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db" validate:"gte=0"`
	PoolSize     int           `yaml:"pool_size" default:"10" validate:"gte=1"`
	MinIdleConns int           `yaml:"min_idle_conns" default:"2" validate:"gte=0"`
	PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
	Prefix       string        `yaml:"prefix" default:"sweep"` // namespace for every key
}

func (c RedisConfig) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		PoolTimeout:  c.PoolTimeout,
		MinIdleConns: c.MinIdleConns,
	}
}

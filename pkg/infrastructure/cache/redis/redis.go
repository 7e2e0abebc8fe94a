package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
)

// Cache expõe as operações de KV usadas pela aplicação (security.KV)
type Cache struct {
	rdb    goredis.UniversalClient
	logger ports.Logger
}

// New cria o cliente Redis; a conexão só é verificada em Ping
func New(cfg config.RedisConfig, logger ports.Logger) *Cache {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return NewWithClient(rdb, logger)
}

// NewWithClient usa um cliente já configurado (cluster, sentinel, testes)
func NewWithClient(rdb goredis.UniversalClient, logger ports.Logger) *Cache {
	return &Cache{rdb: rdb, logger: logger}
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// SetNX grava o valor apenas se a chave ainda não existe
func (c *Cache) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, val, ttl).Result()
	if err != nil {
		c.logger.Error("redis SETNX failed", "key", key, "error", err)
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	c.logger.Debug("redis SETNX", "key", key, "ttl", ttl.String(), "created", ok)
	return ok, nil
}

// Exists verifica se a chave existe
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis EXISTS failed", "key", key, "error", err)
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

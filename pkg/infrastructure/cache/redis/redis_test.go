package redis

import (
	"context"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/logging"
	"github.com/rafabene/avantpro-core/pkg/security"
)

// Sem servidor Redis disponível: endereço que recusa conexões
func newUnreachableCache(t *testing.T) *Cache {
	t.Helper()

	logger := logging.NewSlogLoggerWithWriter(io.Discard, "error", "json")
	cache := NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}), logger)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCache_ErrosDeConexao(t *testing.T) {
	cache := newUnreachableCache(t)
	ctx := context.Background()

	if err := cache.Ping(ctx); err == nil {
		t.Error("esperava erro de ping")
	}
	if _, err := cache.SetNX(ctx, "jti:1", []byte("1"), time.Minute); err == nil {
		t.Error("esperava erro em SETNX")
	}
	if _, err := cache.Exists(ctx, "jti:1"); err == nil {
		t.Error("esperava erro em EXISTS")
	}
}

func TestCache_BlacklistPropagaFalha(t *testing.T) {
	store := security.NewBlacklistStore(newUnreachableCache(t), "")

	if _, err := store.IsRevoked(context.Background(), "jti-1"); err == nil {
		t.Error("falha do Redis não pode ser tratada como token válido")
	}
}

func TestNew_UsaConfig(t *testing.T) {
	logger := logging.NewSlogLoggerWithWriter(io.Discard, "error", "json")
	cache := New(config.RedisConfig{Addr: "127.0.0.1:1", DB: 2}, logger)
	defer cache.Close()

	client, ok := cache.rdb.(*goredis.Client)
	if !ok {
		t.Fatalf("esperava *redis.Client, obteve %T", cache.rdb)
	}
	if opts := client.Options(); opts.Addr != "127.0.0.1:1" || opts.DB != 2 {
		t.Errorf("opções inesperadas: addr=%s db=%d", opts.Addr, opts.DB)
	}
}

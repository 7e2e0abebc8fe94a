package security

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist guarda tokens revogados (logout) até expirarem
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// KV é o mínimo que o blacklist precisa de um cache com TTL
type KV interface {
	SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

const defaultBlacklistPrefix = "jti:"

// BlacklistStore implementa TokenBlacklist sobre um KV (Redis ou memória)
type BlacklistStore struct {
	kv     KV
	prefix string
}

// NewBlacklistStore cria o store; prefix vazio usa "jti:"
func NewBlacklistStore(kv KV, prefix string) *BlacklistStore {
	if prefix == "" {
		prefix = defaultBlacklistPrefix
	}
	return &BlacklistStore{kv: kv, prefix: prefix}
}

// Revoke marca o token como revogado; o TTL acompanha a expiração do token
func (s *BlacklistStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	_, err := s.kv.SetNX(ctx, s.prefix+tokenID, []byte("1"), ttl)
	return err
}

func (s *BlacklistStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.kv.Exists(ctx, s.prefix+tokenID)
}

// MemoryKV é um KV em memória com expiração, usado sem Redis configurado
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryKV) SetNX(_ context.Context, key string, _ []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = now.Add(ttl)
	return true, nil
}

// sweep remove entradas expiradas; chamado com mu travado
func (m *MemoryKV) sweep(now time.Time) {
	for key, exp := range m.entries {
		if !now.Before(exp) {
			delete(m.entries, key)
		}
	}
}

func (m *MemoryKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.entries, key)
		return false, nil
	}
	return true, nil
}

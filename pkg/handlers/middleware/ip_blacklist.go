package middleware

import (
	"bufio"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/domain/errors"
	"github.com/rafabene/avantpro-core/pkg/domain/ports"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/config"
)

// IPBlacklist bloqueia IPs e faixas CIDR listados em arquivo.
// Formato: um endereço ou CIDR por linha; linhas com # são comentários.
type IPBlacklist struct {
	mu       sync.RWMutex
	cfg      config.IPBlacklistConfig
	logger   ports.Logger
	prefixes []netip.Prefix
}

// NewIPBlacklist carrega o arquivo configurado (quando habilitado)
func NewIPBlacklist(cfg config.IPBlacklistConfig, logger ports.Logger) (*IPBlacklist, error) {
	b := &IPBlacklist{cfg: cfg, logger: logger}
	if cfg.Enabled && cfg.FilePath != "" {
		if err := b.Reload(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Reload relê o arquivo de blacklist
func (b *IPBlacklist) Reload() error {
	f, err := os.Open(b.cfg.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open ip blacklist %s: %w", b.cfg.FilePath, err)
	}
	defer f.Close()

	var prefixes []netip.Prefix
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(entry, "#"); idx != -1 {
			entry = strings.TrimSpace(entry[:idx])
		}
		if entry == "" {
			continue
		}

		prefix, err := parseEntry(entry)
		if err != nil {
			return fmt.Errorf("invalid ip blacklist entry at line %d: %w", line, err)
		}
		prefixes = append(prefixes, prefix)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ip blacklist: %w", err)
	}

	b.mu.Lock()
	b.prefixes = prefixes
	b.mu.Unlock()

	b.logger.Info("ip blacklist loaded", "path", b.cfg.FilePath, "entries", len(prefixes))
	return nil
}

func parseEntry(entry string) (netip.Prefix, error) {
	if strings.Contains(entry, "/") {
		return netip.ParsePrefix(entry)
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Contains verifica se o IP está bloqueado
func (b *IPBlacklist) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, p := range b.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Handler bloqueia a requisição com AccessDeniedError
func (b *IPBlacklist) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !b.cfg.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if b.Contains(ip) {
			b.log("blocked request from blacklisted ip", "ip", ip, "path", c.Request.URL.Path)
			abortWithError(c, &errors.AccessDeniedError{Reason: "blacklisted ip"})
			return
		}

		c.Next()
	}
}

func (b *IPBlacklist) log(msg string, args ...any) {
	switch strings.ToUpper(b.cfg.LogLevel) {
	case "DEBUG":
		b.logger.Debug(msg, args...)
	case "INFO":
		b.logger.Info(msg, args...)
	case "ERROR":
		b.logger.Error(msg, args...)
	default:
		b.logger.Warn(msg, args...)
	}
}

package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/stridewear/storefront-backend/pkg/config"
	redisclient "github.com/stridewear/storefront-backend/pkg/redis"
)

const sessionKeyBytes = 32

var ErrUnknownSession = errors.New("unknown session key")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionKey string) string
}

// Manager issues and validates anonymous browser sessions. A session key is
// the stable owner identity for guest carts, so it must exist before the
// first cart lookup.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Start creates a fresh session and returns its key.
func (m *Manager) Start(ctx context.Context) (string, error) {
	key, err := generateSessionKey()
	if err != nil {
		return "", err
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if err := m.store.Set(ctx, m.keyer.SessionKey(key), createdAt, m.ttl); err != nil {
		return "", err
	}
	return key, nil
}

// Validate reports whether the provided session key is still live and slides
// its expiry forward when it is.
func (m *Manager) Validate(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, nil
	}
	storeKey := m.keyer.SessionKey(key)
	if _, err := m.store.Get(ctx, storeKey); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	if _, err := m.store.Expire(ctx, storeKey, m.ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke removes the session.
func (m *Manager) Revoke(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrUnknownSession
	}
	return m.store.Del(ctx, m.keyer.SessionKey(key))
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, sessionKeyBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

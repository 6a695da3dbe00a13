package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror keeps the snapshot in Redis under cart:<id>, for
// deployments where the API runs behind more than one instance. The TTL
// gets a little jitter so a fleet of carts does not expire at once.
type RedisMirror struct {
	client  *redis.Client
	cartID  string
	baseTTL time.Duration
}

// NewRedisMirror returns a mirror for one cart ID.
func NewRedisMirror(client *redis.Client, cartID string) *RedisMirror {
	return &RedisMirror{
		client:  client,
		cartID:  cartID,
		baseTTL: 72 * time.Hour,
	}
}

func (m *RedisMirror) key() string {
	return fmt.Sprintf("cart:%s", m.cartID)
}

func (m *RedisMirror) Load(ctx context.Context) (Snapshot, error) {
	data, err := m.client.Get(ctx, m.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMirrorMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrMirrorMiss
	}
	return s, nil
}

func (m *RedisMirror) Save(ctx context.Context, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	if err := m.client.Set(ctx, m.key(), data, m.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/lumamart/storefront-backend/pkg/redis"
)

// cartTTL keeps abandoned carts around for a month before Redis reclaims them.
const cartTTL = 30 * 24 * time.Hour

// Store abstracts the cart document storage.
type Store interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, cart *Cart) error
	Clear(ctx context.Context, userID string) error
}

type cartKeyer interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type redisStore struct {
	client cartKeyer
}

// NewStore builds a Redis-backed cart store.
func NewStore(client *pkgredis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{Items: []Line{}}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []Line{}
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, userID string, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(userID), string(payload), cartTTL); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(userID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// README: Cart store backed by Redis; one JSON document per cart with a sliding TTL.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:%s"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, id string) (*Cart, error) {
	raw, err := s.redis.Get(ctx, cartKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart %s: %w", id, err)
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	return s.redis.Set(ctx, cartKey(c.ID), raw, s.ttl).Err()
}

// UpdateVersion runs the version check and the write under WATCH, so a
// concurrent change to the key aborts the transaction.
func (s *Store) UpdateVersion(ctx context.Context, c *Cart, version int) (bool, error) {
	key := cartKey(c.ID)
	raw, err := json.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	written := false
	err = s.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var stored struct {
			Version int `json:"version"`
		}
		if err := json.Unmarshal(cur, &stored); err != nil {
			return fmt.Errorf("decode cart %s: %w", c.ID, err)
		}
		if stored.Version != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		written = true
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("redis update cart %s: %w", c.ID, err)
	}
	return written, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, cartKey(id)).Err()
}

func cartKey(id string) string {
	return fmt.Sprintf(cartKeyPrefix, id)
}

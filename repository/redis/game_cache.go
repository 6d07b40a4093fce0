package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/repository"
)

type gameCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewGameCache creates a Redis-backed snapshot cache for game reads. A miss
// is reported as domain.ErrGameNotFound so callers fall through to the
// store.
func NewGameCache(client *redislib.Client, ttl time.Duration) repository.GameCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &gameCache{
		client: client,
		prefix: "game:",
		ttl:    ttl,
	}
}

func (c *gameCache) Get(ctx context.Context, id string) (*domain.Game, error) {
	result, err := c.client.Get(ctx, c.key(id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}

	var game domain.Game
	if err := json.Unmarshal([]byte(result), &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *gameCache) Set(ctx context.Context, game *domain.Game) error {
	if game == nil || game.ID == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(game.ID), payload, c.ttl).Err()
}

func (c *gameCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *gameCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}

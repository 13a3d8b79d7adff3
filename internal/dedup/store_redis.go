package dedup

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/redis/go-redis/v9"
)

const (
	redisSeenKey    = "jobradar:seen"
	redisStagingKey = "jobradar:seen:staging"
)

// RedisStore keeps fingerprints in a Redis set.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("redis ping failed: %w", err)}
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context) (mapset.Set[string], error) {
	members, err := s.client.SMembers(ctx, redisSeenKey).Result()
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return mapset.NewSet(members...), nil
}

// Save stages the full set under a scratch key and RENAMEs it into place,
// giving the same replace-atomically semantics as the file backend.
func (s *RedisStore) Save(ctx context.Context, fingerprints mapset.Set[string]) error {
	members := fingerprints.ToSlice()
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisStagingKey)
	pipe.SAdd(ctx, redisStagingKey, args...)
	pipe.Rename(ctx, redisStagingKey, redisSeenKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, redisSeenKey).Err(); err != nil {
		return &StoreError{Op: "reset", Err: err}
	}
	return nil
}

func (s *RedisStore) Close() {
	s.client.Close()
}

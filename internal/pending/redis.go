package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps pending requests in Redis with a server-side TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("pending:%s", id)
}

func (s *RedisStore) Put(ctx context.Context, req AnalysisRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(req.ID), data, TTL).Err()
}

// Consume uses GETDEL so only one caller can ever receive a given request.
func (s *RedisStore) Consume(ctx context.Context, id string, ownerID string) (AnalysisRequest, error) {
	data, err := s.client.GetDel(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return AnalysisRequest{}, ErrExpired
	}
	if err != nil {
		return AnalysisRequest{}, err
	}
	var req AnalysisRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return AnalysisRequest{}, err
	}
	if req.OwnerID != ownerID {
		// GETDEL already purged the entry, which is what we want here.
		return AnalysisRequest{}, ErrOwnerMismatch
	}
	return req, nil
}

var _ Store = (*RedisStore)(nil)

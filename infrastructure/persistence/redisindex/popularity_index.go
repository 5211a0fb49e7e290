package redisindex

import (
	"context"

	"socialgram-backend/application/ports"
	pkgerrors "socialgram-backend/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rankingKey is the sorted set holding postID -> like count
const rankingKey = "popular:posts"

// PopularityIndex keeps the like-count ranking in a Redis sorted set.
// Scores are adjusted incrementally on every like and unlike, so the
// popular feed is a single ZREVRANGE instead of a corpus scan.
type PopularityIndex struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPopularityIndex connects to Redis and verifies the connection
func NewPopularityIndex(ctx context.Context, addr, password string, logger *zap.Logger) (ports.PopularityIndex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, pkgerrors.NewExternalError("redis", err)
	}

	return &PopularityIndex{
		client: client,
		logger: logger,
	}, nil
}

// Seed registers a new post with a zero score. NX keeps a concurrent
// like's increment from being overwritten.
func (p *PopularityIndex) Seed(ctx context.Context, postID string) error {
	err := p.client.ZAddNX(ctx, rankingKey, redis.Z{
		Score:  0,
		Member: postID,
	}).Err()
	if err != nil {
		return pkgerrors.NewExternalError("redis", err)
	}
	return nil
}

// Increment adjusts a post's like count by delta
func (p *PopularityIndex) Increment(ctx context.Context, postID string, delta int) error {
	if err := p.client.ZIncrBy(ctx, rankingKey, float64(delta), postID).Err(); err != nil {
		return pkgerrors.NewExternalError("redis", err)
	}
	return nil
}

// Remove drops a deleted post from the ranking
func (p *PopularityIndex) Remove(ctx context.Context, postID string) error {
	if err := p.client.ZRem(ctx, rankingKey, postID).Err(); err != nil {
		return pkgerrors.NewExternalError("redis", err)
	}
	return nil
}

// Top returns post IDs ordered by descending like count
func (p *PopularityIndex) Top(ctx context.Context, offset, count int) ([]string, error) {
	ids, err := p.client.ZRevRange(ctx, rankingKey, int64(offset), int64(offset+count-1)).Result()
	if err != nil {
		return nil, pkgerrors.NewExternalError("redis", err)
	}
	return ids, nil
}

// Close releases the Redis connection
func (p *PopularityIndex) Close() error {
	return p.client.Close()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OAuthStatePrefix = "oauth:state"
	OAuthStateTTL    = 10 * time.Minute
)

var ErrStateNotFound = errors.New("oauth state not found")

// OAuthStateRepository 第三方登录 state 参数，一次性使用
type OAuthStateRepository struct {
	rdb *redis.Client
}

func NewOAuthStateRepository(rdb *redis.Client) *OAuthStateRepository {
	return &OAuthStateRepository{rdb: rdb}
}

func (r *OAuthStateRepository) key(state string) string {
	return fmt.Sprintf("%s:%s", OAuthStatePrefix, state)
}

func (r *OAuthStateRepository) Save(ctx context.Context, state string) error {
	if err := r.rdb.Set(ctx, r.key(state), "1", OAuthStateTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Consume 取出并删除 state，不存在或已使用返回 ErrStateNotFound
func (r *OAuthStateRepository) Consume(ctx context.Context, state string) error {
	_, err := r.rdb.GetDel(ctx, r.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

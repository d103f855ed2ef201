package notify

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisQueue is a FIFO list: LPUSH to publish, BRPOP to consume.
type RedisQueue struct {
	rdb  *redis.Client
	key  string
	log  *zap.Logger
	wait time.Duration
}

func NewRedisQueue(rdb *redis.Client, key string, log *zap.Logger) *RedisQueue {
	if key == "" {
		key = "mail:outbox"
	}
	return &RedisQueue{rdb: rdb, key: key, log: log, wait: 5 * time.Second}
}

func (q *RedisQueue) Publish(ctx context.Context, e Email) error {
	b, err := encode(e)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, b).Err()
}

func (q *RedisQueue) Consume(ctx context.Context, handle Handler) error {
	for {
		res, err := q.rdb.BRPop(ctx, q.wait, q.key).Result()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			q.log.Warn("mail queue read failed", zap.String("key", q.key), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// res is [key, value]
		e, err := decode([]byte(res[1]))
		if err != nil {
			q.log.Error("dropping malformed mail message", zap.String("key", q.key), zap.Error(err))
			continue
		}
		_ = handle(ctx, e)
	}
}

func (q *RedisQueue) Close() error { return nil }

package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler processes one dequeued email. Its error is reported by the
// consumer's owner; consumption continues regardless.
type Handler func(ctx context.Context, e Email) error

// Queue is the outbound mail channel between request handlers and the
// mail worker.
type Queue interface {
	Publish(ctx context.Context, e Email) error
	// Consume blocks until ctx is cancelled.
	Consume(ctx context.Context, handle Handler) error
	Close() error
}

type QueueConfig struct {
	Kind string // redis or kafka
	Key  string

	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string
}

func NewQueue(cfg QueueConfig, rdb *redis.Client, log *zap.Logger) (Queue, error) {
	switch cfg.Kind {
	case "kafka":
		return NewKafkaQueue(KafkaConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaGroupID,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}, log), nil
	case "", "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis mail queue needs a redis client")
		}
		return NewRedisQueue(rdb, cfg.Key, log), nil
	default:
		return nil, fmt.Errorf("unknown mail queue %q", cfg.Kind)
	}
}

func encode(e Email) ([]byte, error) {
	return json.Marshal(e)
}

func decode(b []byte) (Email, error) {
	var e Email
	if err := json.Unmarshal(b, &e); err != nil {
		return Email{}, err
	}
	return e, nil
}

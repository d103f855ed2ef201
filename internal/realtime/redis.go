package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "notifications:"

func NewRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Channel is the pub/sub channel carrying a user's notifications.
func Channel(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

// Publisher sends realtime events through Redis so that every API instance
// can deliver them to its own websocket clients.
type Publisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewPublisher(rdb *redis.Client, log *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

func (p *Publisher) SendToUser(userID uuid.UUID, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.log.Error("marshal realtime payload", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.rdb.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		p.log.Warn("publish realtime event", zap.String("userId", userID.String()), zap.Error(err))
	}
}

// ListenRedis relays every notifications:<userID> message to local clients
// until ctx is done.
func (h *Hub) ListenRedis(ctx context.Context, rdb *redis.Client) {
	sub := rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID, ok := userFromChannel(msg.Channel)
			if !ok {
				continue
			}
			h.Deliver(userID, []byte(msg.Payload))
		}
	}
}

func userFromChannel(channel string) (uuid.UUID, bool) {
	raw, found := strings.CutPrefix(channel, channelPrefix)
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

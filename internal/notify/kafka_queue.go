package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	Username string
	Password string
}

// KafkaQueue publishes emails to a topic and consumes them in a consumer
// group. SASL/PLAIN over TLS is used when a username is configured.
type KafkaQueue struct {
	cfg    KafkaConfig
	writer *kafka.Writer
	log    *zap.Logger

	mu     sync.Mutex
	reader *kafka.Reader
}

func NewKafkaQueue(cfg KafkaConfig, log *zap.Logger) *KafkaQueue {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{},
		}
	}
	return &KafkaQueue{cfg: cfg, writer: w, log: log}
}

func (q *KafkaQueue) Publish(ctx context.Context, e Email) error {
	b, err := encode(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.To),
		Value: b,
		Time:  time.Now(),
	})
}

func (q *KafkaQueue) newReader() *kafka.Reader {
	dialer := &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}
	if q.cfg.Username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{Username: q.cfg.Username, Password: q.cfg.Password}
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  q.cfg.Brokers,
		GroupID:  q.cfg.GroupID,
		Topic:    q.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})
}

func (q *KafkaQueue) Consume(ctx context.Context, handle Handler) error {
	q.mu.Lock()
	if q.reader == nil {
		q.reader = q.newReader()
	}
	r := q.reader
	q.mu.Unlock()

	for {
		msg, err := r.ReadMessage(ctx)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			q.log.Warn("mail topic read failed", zap.String("topic", q.cfg.Topic), zap.Error(err))
			continue
		}

		e, err := decode(msg.Value)
		if err != nil {
			q.log.Error("dropping malformed mail message",
				zap.String("topic", q.cfg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}
		_ = handle(ctx, e)
	}
}

func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	var errs []error
	if q.reader != nil {
		errs = append(errs, q.reader.Close())
	}
	errs = append(errs, q.writer.Close())
	return errors.Join(errs...)
}

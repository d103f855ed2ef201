// mailer drains the mail outbox when the API runs with MAIL_WORKER_INLINE=false.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/config"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/logger"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/notify"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, Dir: cfg.LogDir})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()

	queue, err := notify.NewQueue(notify.QueueConfig{
		Kind:          cfg.MailQueue,
		Key:           cfg.MailQueueKey,
		KafkaBrokers:  cfg.KafkaBrokerList(),
		KafkaTopic:    cfg.KafkaTopic,
		KafkaGroupID:  cfg.KafkaGroupID,
		KafkaUsername: cfg.KafkaUsername,
		KafkaPassword: cfg.KafkaPassword,
	}, rdb, log)
	if err != nil {
		log.Fatal("mail queue", zap.Error(err))
	}
	defer queue.Close()

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})

	log.Info("mailer consuming", zap.String("queue", cfg.MailQueue))
	if err := notify.NewWorker(queue, mailer, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mail worker exited", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/config"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/logger"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/notify"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/services/tutor"
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

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(db.Options{
		DSN:             cfg.DBDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
		Debug:           !cfg.IsProduction() && cfg.LogDev,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	if err := db.Migrate(gdb); err != nil {
		return err
	}
	log.Info("database ready")

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	log.Info("redis connected", zap.String("addr", cfg.RedisAddr))

	hub := realtime.NewHub(log.Named("hub"))
	go hub.Run(ctx)
	go hub.ListenRedis(ctx, rdb)

	queue, err := notify.NewQueue(notify.QueueConfig{
		Kind:          cfg.MailQueue,
		Key:           cfg.MailQueueKey,
		KafkaBrokers:  cfg.KafkaBrokerList(),
		KafkaTopic:    cfg.KafkaTopic,
		KafkaGroupID:  cfg.KafkaGroupID,
		KafkaUsername: cfg.KafkaUsername,
		KafkaPassword: cfg.KafkaPassword,
	}, rdb, log.Named("mailq"))
	if err != nil {
		return err
	}
	defer queue.Close()

	if cfg.MailWorkerInline {
		worker := notify.NewWorker(queue, notify.NewSMTPMailer(smtpConfig(cfg)), log.Named("mailer"))
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("mail worker exited", zap.Error(err))
			}
		}()
	}

	notifier := notify.NewNotifier(queue, realtime.NewPublisher(rdb, log.Named("publisher")), cfg.FrontendURL, log.Named("notify"))
	tutorSvc := tutor.NewService(tutor.NewGormStore(gdb))

	app := fiber.New(fiber.Config{
		AppName:      "skillbridge",
		ErrorHandler: handlers.ErrorHandler(log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOriginList(), ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	roles := db.NewUserRoles(gdb)
	auth := middleware.JWTFromRequest(cfg.JWTSecret, cfg.CookieName, roles)
	optionalAuth := middleware.OptionalJWT(cfg.JWTSecret, cfg.CookieName, roles)

	session := handlers.Session{
		JWTSecret:  cfg.JWTSecret,
		ExpiresMin: cfg.JWTExpiresMin,
		CookieName: cfg.CookieName,
		Secure:     cfg.IsProduction(),
	}

	health := &handlers.HealthHandler{DB: gdb, RDB: rdb}
	app.Get("/healthz", health.Health)

	api := app.Group("/api")
	handlers.NewAuthHandler(gdb, session).Routes(api, auth)
	(&handlers.GoogleOAuthHandler{
		DB:              gdb,
		Session:         session,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendURL,
		Log:             log.Named("oauth"),
	}).Routes(api)

	v1 := api.Group("/v1")
	handlers.NewTutorHandler(tutorSvc, notifier).Routes(v1, auth, optionalAuth)
	v1.Get("/subjects", handlers.NewSubjectHandler(tutorSvc).GetSubjects)

	handlers.NewNotificationSocket(hub, cfg.JWTSecret, cfg.CookieName, log.Named("ws")).Routes(app)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", zap.String("port", cfg.AppPort))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func smtpConfig(cfg *config.Config) notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	}
}

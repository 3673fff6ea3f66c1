package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Book_Club/internal/config"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/redis"
	"Book_Club/internal/repository/sqldb"
	"Book_Club/internal/router"
	"Book_Club/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox relayer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer sqldb.Close(db)

	if err := sqldb.Migrate(db); err != nil {
		return err
	}
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := router.Deps{
		DB:     db,
		Log:    log,
		Issuer: pkg.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
	}
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Tokens = redis.NewTokenRepository(client, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
		log.WithField("addr", cfg.Redis.Addr).Info("token routes enabled")
	} else {
		log.Warn("redis not configured, token routes disabled")
	}

	sender, closeSender := buildSender(cfg, log)
	defer closeSender()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayer := service.NewOutboxRelayer(db, sender, cfg.Outbox.Interval, cfg.Outbox.BatchSize, log.WithField("component", "outbox"))
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relayer.Run(ctx)
	}()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.InitRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		<-relayDone
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown server")
	}
	<-relayDone
	log.Info("server shutdown successfully")
	return nil
}

// buildSender picks the outbox senders from config. Without Kafka events are only logged.
// Admin mail is best-effort and never causes a retry.
func buildSender(cfg *config.Config, log *logrus.Logger) (service.Sender, func()) {
	var senders []service.Sender
	closeFn := func() {}

	kcfg := pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}
	if kcfg.Enabled() {
		producer := pkg.NewKafkaProducer(kcfg)
		senders = append(senders, service.KafkaSender(producer))
		closeFn = func() {
			if err := producer.Close(); err != nil {
				log.WithError(err).Warn("close kafka producer")
			}
		}
		log.WithField("topic", kcfg.Topic).Info("outbox relaying to kafka")
	} else {
		senders = append(senders, service.LogSender(log.WithField("component", "outbox")))
	}

	smtp := pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	if smtp.Enabled() {
		senders = append(senders, service.BestEffort("mail", service.MailSender(smtp, nil), log.WithField("component", "outbox")))
	}
	return service.MultiSender(senders...), closeFn
}

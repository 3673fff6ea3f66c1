package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Book_Club/internal/model"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/sqldb"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultOutboxBatch    = 200
	DefaultOutboxInterval = time.Second
	DefaultOutboxRetry    = 5
)

type Sender func(ctx context.Context, ev *model.OutboxEvent) error

// OutboxRelayer drains outbox_events and hands each row to a Sender.
type OutboxRelayer struct {
	repo      *sqldb.OutboxRepository
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
	log       logrus.FieldLogger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, interval time.Duration, batchSize int, log logrus.FieldLogger) *OutboxRelayer {
	if interval <= 0 {
		interval = DefaultOutboxInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultOutboxBatch
	}
	return &OutboxRelayer{
		repo:      &sqldb.OutboxRepository{DB: db},
		batchSize: batchSize,
		maxRetry:  DefaultOutboxRetry,
		interval:  interval,
		sender:    sender,
		log:       log,
	}
}

// Run drains on every tick until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce relays one batch and returns how many events were sent.
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.log.WithError(err).Warn("outbox query failed")
		return 0
	}
	sent := 0
	for i := range rows {
		ev := rows[i]
		if err := r.sender(ctx, &ev); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"event_id": ev.ID,
				"type":     ev.EventType,
				"retry":    ev.Retry + 1,
			}).Warn("outbox send failed")
			if err := r.repo.MarkFailed(ctx, ev.ID); err != nil {
				r.log.WithError(err).Error("outbox mark failed")
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ev.ID); err != nil {
			r.log.WithError(err).Error("outbox mark sent")
			continue
		}
		sent++
	}
	return sent
}

// LogSender writes the event to the log. Used when no broker is configured.
func LogSender(log logrus.FieldLogger) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		log.WithFields(logrus.Fields{
			"event_id":     ev.ID,
			"type":         ev.EventType,
			"aggregate_id": ev.AggregateID,
			"payload":      ev.Payload,
		}).Info("outbox event")
		return nil
	}
}

// KafkaSender publishes the payload keyed by aggregate id.
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ev.AggregateID), []byte(ev.Payload),
			kafka.Header{Key: "event_type", Value: []byte(ev.EventType)})
	}
}

type Mailer func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error

// MailSender emails the club admin when someone joins. Other events pass through.
func MailSender(cfg pkg.SMTPConfig, mail Mailer) Sender {
	if mail == nil {
		mail = pkg.SendEmail
	}
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		if ev.EventType != model.EventMemberJoined {
			return nil
		}
		var p model.MemberJoinedPayload
		if err := json.Unmarshal([]byte(ev.Payload), &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", ev.EventType, err)
		}
		if p.AdminEmail == "" {
			return nil
		}
		subject := fmt.Sprintf("New member in %s", p.ClubName)
		return mail(cfg, p.AdminEmail, subject, pkg.MemberJoinedHTML(p.ClubName, p.Username))
	}
}

// BestEffort logs the wrapped sender's failures and always reports success.
func BestEffort(name string, sender Sender, log logrus.FieldLogger) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		if err := sender(ctx, ev); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"sender":   name,
				"event_id": ev.ID,
				"type":     ev.EventType,
			}).Warn("best-effort send failed")
		}
		return nil
	}
}

// MultiSender calls each sender in order and stops at the first error.
func MultiSender(senders ...Sender) Sender {
	return func(ctx context.Context, ev *model.OutboxEvent) error {
		for _, s := range senders {
			if err := s(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	}
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"studyboard/internal/model"
	"studyboard/internal/platform/rabbitmq"
)

// AuditStore is the sink for decoded audit events.
type AuditStore interface {
	Create(ctx context.Context, event *model.AuditEvent) error
}

type AuditPersistWorker struct {
	conn      *amqp.Connection
	store     AuditStore
	queueName string
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAuditPersistWorker(conn *amqp.Connection, store AuditStore, queueName string, logger *slog.Logger) *AuditPersistWorker {
	return &AuditPersistWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		logger:    logger.With("component", "audit_worker", "queue", queueName),
	}
}

func (w *AuditPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d.Body, d)
			}
		}
	}()

	return nil
}

// acker is the slice of amqp.Delivery the worker needs.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *AuditPersistWorker) handle(ctx context.Context, body []byte, d acker) {
	var event model.AuditEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.logger.Error("decode audit event failed", "error", err)
		_ = d.Nack(false, false)
		return
	}
	// IDs are assigned by the store.
	event.ID = 0

	if err := w.store.Create(ctx, &event); err != nil {
		w.logger.Error("persist audit event failed", "error", err, "type", event.Type)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *AuditPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

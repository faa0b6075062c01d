package ingestion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/plcwatch/go-plc-alerts/internal/config"
	"github.com/plcwatch/go-plc-alerts/internal/correlator"
	"github.com/plcwatch/go-plc-alerts/internal/models"
	"github.com/plcwatch/go-plc-alerts/internal/notifier"
	"github.com/plcwatch/go-plc-alerts/internal/plctime"
	"github.com/plcwatch/go-plc-alerts/internal/repository"
	"github.com/plcwatch/go-plc-alerts/internal/worker"
)

// Subscriber is the inbound side of the pub/sub channel, satisfied by
// the mqtt client.
type Subscriber interface {
	Subscribe(topic string, handler func(topic string, payload []byte) error) error
	Unsubscribe(topics ...string) error
}

type faultJob struct {
	errorCode int
	openedAt  string // UTC
}

// Manager consumes fault batches from the gateway data topic, fans out
// per-code status, and correlates each abnormal code into an alert.
type Manager struct {
	cfg        *config.Config
	sub        Subscriber
	normalizer *plctime.Normalizer
	notifier   *notifier.Notifier
	correlator *correlator.Correlator
	pool       *worker.Pool[faultJob]
}

func NewManager(cfg *config.Config, sub Subscriber, n *notifier.Notifier, c *correlator.Correlator) *Manager {
	return &Manager{
		cfg:        cfg,
		sub:        sub,
		normalizer: plctime.NewNormalizer(cfg.PLC.UTCOffsetHours),
		notifier:   n,
		correlator: c,
	}
}

func (m *Manager) Start(ctx context.Context) error {
	processor := func(ctx context.Context, job faultJob) error {
		_, err := m.correlator.Correlate(ctx, job.errorCode, job.openedAt)
		if errors.Is(err, repository.ErrUnknownErrorCode) {
			// Catalog inconsistency: retrying cannot fix it, so log and
			// move on without an alert record.
			slog.Error("fault code missing from catalog", "error_code", job.errorCode)
			return err
		}
		if err != nil {
			slog.Error("error correlating fault", "error_code", job.errorCode, "error", err)
			return err
		}
		return nil
	}

	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)

	if err := m.sub.Subscribe(m.cfg.MQTT.DataTopic, func(_ string, payload []byte) error {
		return m.HandleBatch(ctx, payload)
	}); err != nil {
		return err
	}

	slog.Info("ingestion started", "topic", m.cfg.MQTT.DataTopic)
	return nil
}

// HandleBatch processes one evaluation cycle from the gateway. A batch
// that fails to parse or carries a malformed timestamp is rejected whole:
// no status publishes, no alerts. An empty batch is a silent no-op.
func (m *Manager) HandleBatch(ctx context.Context, payload []byte) error {
	batch, err := models.ParseFaultBatch(payload)
	if err != nil {
		slog.Error("rejecting fault batch", "error", err)
		return err
	}
	if batch.IsEmpty() {
		return nil
	}

	timestamp, err := m.normalizer.Normalize(batch.Timestamp)
	if err != nil {
		slog.Error("rejecting fault batch", "timestamp", batch.Timestamp, "error", err)
		return err
	}

	slog.Debug("fault batch received", "codes", batch.Codes, "timestamp", timestamp)

	// Every known code gets its status published, whether or not an
	// alert is created for it.
	m.notifier.NotifyAll(ctx, timestamp, batch.CodeSet())

	for _, code := range batch.Codes {
		m.pool.Submit(faultJob{errorCode: code, openedAt: timestamp})
	}
	return nil
}

func (m *Manager) Stop() {
	if err := m.sub.Unsubscribe(m.cfg.MQTT.DataTopic); err != nil {
		slog.Error("error unsubscribing from data topic", "error", err)
	}
	m.pool.Stop()
	slog.Info("ingestion manager stopped")
}

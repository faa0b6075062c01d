// Package notifier broadcasts the normal/abnormal status of every known
// fault code to that code's topic, once per evaluation cycle.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/plcwatch/go-plc-alerts/internal/models"
)

// Publisher is the pub/sub channel boundary, fire-and-forget,
// at-most-once. Satisfied by the mqtt client.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Summary aggregates one NotifyAll pass. Individual publish failures are
// counted here instead of aborting the pass.
type Summary struct {
	Published int
	Failed    int
}

type Notifier struct {
	pub         Publisher
	topicPrefix string
	maxCode     int // known codes are [1, maxCode]
}

func New(pub Publisher, topicPrefix string, maxCode int) *Notifier {
	return &Notifier{
		pub:         pub,
		topicPrefix: topicPrefix,
		maxCode:     maxCode,
	}
}

// NotifyAll publishes one status message per known fault code: abnormal
// for codes in the set, normal for the rest. All publishes run
// concurrently and join before returning; a failure on one topic never
// blocks or aborts the others. An empty set is a no-op.
func (n *Notifier) NotifyAll(ctx context.Context, timestampUTC string, abnormal map[int]bool) Summary {
	if len(abnormal) == 0 {
		return Summary{}
	}

	results := make(chan error, n.maxCode)
	var wg sync.WaitGroup
	for code := 1; code <= n.maxCode; code++ {
		wg.Add(1)
		go func(code int) {
			defer wg.Done()
			results <- n.publishStatus(timestampUTC, code, !abnormal[code])
		}(code)
	}
	wg.Wait()
	close(results)

	var summary Summary
	for err := range results {
		if err != nil {
			summary.Failed++
		} else {
			summary.Published++
		}
	}

	if summary.Failed > 0 {
		slog.Warn("status fan-out completed with failures",
			"published", summary.Published, "failed", summary.Failed)
	} else {
		slog.Debug("status fan-out complete", "published", summary.Published)
	}
	return summary
}

func (n *Notifier) publishStatus(timestampUTC string, code int, isNormal bool) error {
	msg := models.NewStatusMessage(timestampUTC, code, isNormal)
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("error encoding status message", "error_code", code, "error", err)
		return err
	}

	topic := n.topicPrefix + strconv.Itoa(code)
	if err := n.pub.Publish(topic, payload); err != nil {
		slog.Error("error publishing status", "topic", topic, "error", err)
		return err
	}
	return nil
}

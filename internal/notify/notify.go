// Package notify announces finished runs to other systems.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "doxycombine.runs.completed"

// Notifier publishes run records.
type Notifier interface {
	Publish(ctx context.Context, run history.Run) error
	Close()
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Publish(context.Context, history.Run) error { return nil }
func (NoopNotifier) Close() {}

// flushTimeout bounds the server acknowledgement when the caller set no deadline.
const flushTimeout = 5 * time.Second

// NATSNotifier publishes run records as JSON on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	conn, err := nats.Connect(url,
		nats.Name("doxycombine"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifier connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// Encode renders the message body published for a run.
func Encode(run history.Run) ([]byte, error) {
	return json.Marshal(run)
}

// Publish sends the run and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Publish(ctx context.Context, run history.Run) error {
	data, err := Encode(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	msg := nats.NewMsg(n.subject)
	msg.Data = data
	msg.Header.Set("Run-Id", run.ID)
	msg.Header.Set("Outcome", run.Outcome)
	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish run: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush run notification: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() {
	if n == nil || n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}

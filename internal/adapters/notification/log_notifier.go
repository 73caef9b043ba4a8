package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/forex_import_job/internal/logging"
)

// SentMessage is a notification captured by LogNotifier.
type SentMessage struct {
	Subject string
	Body    string
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	mu   sync.Mutex
	sent []SentMessage
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendSuccess(ctx context.Context, processed int) error {
	n.record(ctx, SuccessSubject, SuccessBody(processed))
	return nil
}

func (n *LogNotifier) SendFailure(ctx context.Context, message string) error {
	n.record(ctx, FailureSubject, FailureBody(message))
	return nil
}

// Sent returns a copy of the captured notifications in send order.
func (n *LogNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentMessage(nil), n.sent...)
}

func (n *LogNotifier) record(ctx context.Context, subject, body string) {
	n.mu.Lock()
	n.sent = append(n.sent, SentMessage{Subject: subject, Body: body})
	n.mu.Unlock()

	logging.FromContext(ctx).Info("Notification (log provider)", slog.String("subject", subject), slog.String("body", body))
}

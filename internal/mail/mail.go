// mail/mail.go
package mail

import (
	"context"

	"go.uber.org/zap"
)

// Message is an outbound email with a single attachment.
type Message struct {
	To             string
	From           string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers outbound email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs what would have been sent instead of delivering it.
// Real delivery (SendGrid, Mailgun, ...) would slot in behind Sender.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send records the message without delivering it.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("would send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("attachment", msg.AttachmentName),
		zap.Int("attachment_bytes", len(msg.Attachment)))
	return nil
}

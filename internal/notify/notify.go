// Package notify delivers rendered reports.
//
// SMTPSink mails them; LogSink writes them to the run logger instead, for
// deployments with mail disabled. Every delivery failure is reported as
// inventory.ErrCodeDeliveryFailed.
package notify

import (
	"context"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
)

// Sink delivers one report.
type Sink interface {
	Send(ctx context.Context, subject, body string) error
}

// LogSink logs reports instead of sending them.
type LogSink struct{}

// Send writes the report to the context logger. It never fails.
func (LogSink) Send(ctx context.Context, subject, body string) error {
	logging.FromContext(ctx).Info().
		Str("subject", subject).
		Str("body", body).
		Msg("email disabled, report not sent")
	return nil
}

package notification

import "context"

// Sender delivers a single email message. Delivery is best-effort from the
// caller's perspective: a failure is logged by the caller, never retried, and
// never rolls back the state change that triggered it.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// AngelaMos | 2026
// notifier.go

package notify

import "context"

// Notifier delivers operational messages to the admin channel. Sends are
// best-effort: callers fire them from goroutines and only log failures.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

type Noop struct{}

func (Noop) Send(context.Context, string) error {
	return nil
}

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs notifications in the background, each bounded by a timeout
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher around notifier
func NewDispatcher(notifier Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout}
}

// Dispatch schedules n and returns immediately. Errors and panics are logged.
func (d *Dispatcher) Dispatch(n Notification) {
	if d == nil || d.notifier == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Notification panicked", "request_id", n.RequestID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		sent, err := d.notifier.Notify(ctx, n)
		switch {
		case err != nil:
			slog.Error("Failed to send status notification", "request_id", n.RequestID, "error", err)
		case sent:
			slog.Info("Status notification sent", "request_id", n.RequestID, "status", n.NewStatusLabel)
		default:
			slog.Debug("Status notification skipped", "request_id", n.RequestID)
		}
	}()
}

// Wait blocks until every dispatched notification has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits for in-flight notifications or until ctx is done
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

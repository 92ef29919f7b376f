package alert

import (
	"context"
	"fmt"
	"log/slog"

	"newspulse/app/analysis"
)

// Notifier is the outbound delivery capability. Implementations post the
// message to an external channel and report failure through the error.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Dispatcher turns spike alerts into human-readable notifications.
type Dispatcher struct {
	notifier Notifier
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// MaybeNotify delivers the alert when one is present and reports whether
// delivery succeeded. A nil alert is a no-op returning false. Delivery
// failures are logged and reduced to the boolean, never propagated.
func (d *Dispatcher) MaybeNotify(ctx context.Context, spike *analysis.SpikeAlert) bool {
	if spike == nil {
		return false
	}

	message := FormatMessage(spike)

	if err := d.notifier.Notify(ctx, message); err != nil {
		slog.Warn("Alert delivery failed", "day", spike.Day.Format("2006-01-02"), "error", err)
		return false
	}

	slog.Info("Alert delivered", "day", spike.Day.Format("2006-01-02"), "count", spike.Count)
	return true
}

// FormatMessage renders the fixed-shape alert text.
func FormatMessage(spike *analysis.SpikeAlert) string {
	return fmt.Sprintf("ALERT: news volume spike detected on %s: %d records vs baseline %.2f",
		spike.Day.Format("2006-01-02"), spike.Count, spike.Baseline)
}

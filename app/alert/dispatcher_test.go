package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"newspulse/app/analysis"
)

type fakeNotifier struct {
	calls    int
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	f.calls++
	f.messages = append(f.messages, message)
	return f.err
}

func testSpike() *analysis.SpikeAlert {
	return &analysis.SpikeAlert{
		Day:      time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		Count:    20,
		Baseline: 5.0,
	}
}

func TestMaybeNotifyNilAlert(t *testing.T) {
	notifier := &fakeNotifier{}
	dispatcher := NewDispatcher(notifier)

	if dispatcher.MaybeNotify(context.Background(), nil) {
		t.Error("Nil alert should return false")
	}
	if notifier.calls != 0 {
		t.Errorf("Nil alert must not invoke the notifier, got %d calls", notifier.calls)
	}
}

func TestMaybeNotifyDelivers(t *testing.T) {
	notifier := &fakeNotifier{}
	dispatcher := NewDispatcher(notifier)

	if !dispatcher.MaybeNotify(context.Background(), testSpike()) {
		t.Error("Successful delivery should return true")
	}
	if notifier.calls != 1 {
		t.Fatalf("Expected exactly 1 notifier call, got %d", notifier.calls)
	}

	message := notifier.messages[0]
	if !strings.Contains(message, "20 records") {
		t.Errorf("Message should embed the count, got %q", message)
	}
	if !strings.Contains(message, "5.00") {
		t.Errorf("Message should embed the baseline with 2 decimals, got %q", message)
	}
	if !strings.Contains(message, "2025-01-07") {
		t.Errorf("Message should embed the day, got %q", message)
	}
}

func TestMaybeNotifyDeliveryFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("webhook unreachable")}
	dispatcher := NewDispatcher(notifier)

	if dispatcher.MaybeNotify(context.Background(), testSpike()) {
		t.Error("Failed delivery should return false, not raise")
	}
	if notifier.calls != 1 {
		t.Errorf("Expected 1 notifier call, got %d", notifier.calls)
	}
}

func TestNoopNotifier(t *testing.T) {
	notifier := NewNotifier("")
	if _, ok := notifier.(*NoopNotifier); !ok {
		t.Errorf("Empty webhook URL should select the no-op notifier, got %T", notifier)
	}
	if err := notifier.Notify(context.Background(), "test"); err != nil {
		t.Errorf("No-op notifier should never fail, got %v", err)
	}

	notifier = NewNotifier("https://hooks.slack.com/services/T00/B00/xyz")
	if _, ok := notifier.(*SlackNotifier); !ok {
		t.Errorf("Configured webhook URL should select the Slack notifier, got %T", notifier)
	}
}

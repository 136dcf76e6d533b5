package pool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
)

// captureLogs routes grip output to an in-memory sender for the rest of the test.
func captureLogs(t *testing.T) *send.InternalSender {
	t.Helper()

	sender := send.MakeInternalLogger()
	if err := sender.SetLevel(send.LevelInfo{Default: level.Info, Threshold: level.Debug}); err != nil {
		t.Fatalf("failed to set sender level: %v", err)
	}
	prev := grip.GetSender()
	if err := grip.SetSender(sender); err != nil {
		t.Fatalf("failed to set sender: %v", err)
	}
	t.Cleanup(func() { _ = grip.SetSender(prev) })
	return sender
}

func TestLogging_FailedBatch(t *testing.T) {
	sender := captureLogs(t)

	p, err := New(2)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	_, err = Map(context.Background(), p, func(_ context.Context, v int) (int, error) {
		return 0, errors.New("bad element")
	}, sequence(3))
	if err == nil {
		t.Fatal("expected the batch to fail")
	}
	// close retires everything and stops logging from the workers
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var failed int
	for sender.HasMessage() {
		msg := sender.GetMessage()
		text := msg.Message.String()

		if msg.Priority > level.Info {
			t.Errorf("a failure returned to the caller should not log above info, got %v: %s", msg.Priority, text)
		}
		if strings.Contains(text, "batch failed") {
			failed++
			if msg.Priority != level.Debug {
				t.Errorf("expected batch failure at debug, got %v", msg.Priority)
			}
			if !strings.Contains(text, p.ID()) {
				t.Errorf("log entry missing pool id: %s", text)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected one batch failure entry, got %d", failed)
	}
}

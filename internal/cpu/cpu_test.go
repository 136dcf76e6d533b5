package cpu

import (
	"errors"
	"math/bits"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
)

func TestCore(t *testing.T) {
	n := runtime.NumCPU()

	for _, id := range []int{0, 1, n - 1, n, n + 1, 10 * n, -1, -n - 3} {
		c := core(id)
		if c < 0 || c >= n {
			t.Errorf("core(%d) = %d, want a value in [0, %d)", id, c, n)
		}
	}

	if core(n) != core(0) {
		t.Errorf("core(%d) should wrap around to core(0)", n)
	}
}

func TestPin(t *testing.T) {
	var wg sync.WaitGroup
	for id := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release := Pin("test-pool", id)
			if release == nil {
				t.Errorf("Pin(%d) returned a nil release func", id)
				return
			}
			release()
		}()
	}
	wg.Wait()
}

func TestMaskCore(t *testing.T) {
	n := runtime.NumCPU()

	for _, id := range []int{0, 1, 63, 64, 65, 127, 128, 1000, -70} {
		c := maskCore(id)
		if c < 0 || c >= bits.UintSize || c >= n {
			t.Errorf("maskCore(%d) = %d, want a value in [0, min(%d, %d))", id, c, n, bits.UintSize)
		}
		if uintptr(1)<<uint(c) == 0 {
			t.Errorf("maskCore(%d) = %d gives an empty affinity mask", id, c)
		}
	}
}

func TestLogPinFailure(t *testing.T) {
	sender := send.MakeInternalLogger()
	if err := sender.SetLevel(send.LevelInfo{Default: level.Info, Threshold: level.Debug}); err != nil {
		t.Fatalf("failed to set sender level: %v", err)
	}
	prev := grip.GetSender()
	if err := grip.SetSender(sender); err != nil {
		t.Fatalf("failed to set sender: %v", err)
	}
	defer func() { _ = grip.SetSender(prev) }()

	logPinFailure("pool-1234", 3, errors.New("affinity denied"))

	if !sender.HasMessage() {
		t.Fatal("expected a warning to be logged")
	}
	msg := sender.GetMessage()
	if msg.Priority != level.Warning {
		t.Errorf("expected warning priority, got %v", msg.Priority)
	}
	for _, want := range []string{"pool-1234", "affinity denied"} {
		if !strings.Contains(msg.Message.String(), want) {
			t.Errorf("expected %q in log entry %q", want, msg.Message.String())
		}
	}
}

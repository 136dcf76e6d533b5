//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to core (workerID % NumCPU).
// Must be called after runtime.LockOSThread().
func pinToCore(workerID int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core(workerID))

	return unix.SchedSetaffinity(0, &mask) // 0 = current thread
}

// Pin locks the calling goroutine to an OS thread and pins that thread to a
// core chosen from workerID. Failures are logged under poolID. The returned function undoes the lock; it must
// be called from the same goroutine.
func Pin(poolID string, workerID int) func() {
	runtime.LockOSThread()
	if err := pinToCore(workerID); err != nil {
		logPinFailure(poolID, workerID, err)
	}

	return runtime.UnlockOSThread
}

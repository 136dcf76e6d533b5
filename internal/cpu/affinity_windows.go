//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore pins the current OS thread to maskCore(workerID).
// Must be called after runtime.LockOSThread().
func pinToCore(workerID int) error {
	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1) << uint(maskCore(workerID))

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return err
	}
	return nil
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

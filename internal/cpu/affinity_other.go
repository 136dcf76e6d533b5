//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// Pin locks the calling goroutine to an OS thread.
func Pin(_ string, workerID int) func() {
	runtime.LockOSThread()

	return runtime.UnlockOSThread
}

//go:build darwin

package cpu

import (
	"runtime"
)

// Pin locks the calling goroutine to an OS thread.
// Core pinning is not available on macOS.
func Pin(_ string, workerID int) func() {
	runtime.LockOSThread()

	return runtime.UnlockOSThread
}

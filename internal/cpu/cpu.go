// Package cpu binds pool workers to OS threads and, where the platform
// allows it, to individual cores.
package cpu

import (
	"math/bits"
	"runtime"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// core maps a worker id onto the range [0, NumCPU).
func core(workerID int) int {
	n := runtime.NumCPU()
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}

// maskCore is core(workerID) folded into the cores a single machine-word
// affinity mask can address.
func maskCore(workerID int) int {
	return core(workerID) % bits.UintSize
}

func logPinFailure(poolID string, workerID int, err error) {
	grip.Warning(message.WrapError(err, message.Fields{
		"message": "could not pin worker to core",
		"pool":    poolID,
		"worker":  workerID,
		"core":    core(workerID),
	}))
}

//go:build linux

package ocr

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// AvailableParallelism honours the CPU affinity mask the process runs under,
// so container CPU sets are respected.
func AvailableParallelism() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return max(runtime.NumCPU(), 1)
}

//go:build !linux

package ocr

import "runtime"

// AvailableParallelism returns the number of usable CPUs.
func AvailableParallelism() int {
	return max(runtime.NumCPU(), 1)
}

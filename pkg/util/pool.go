package util

import "runtime"

// GetOptimalPoolSize returns the pool size used for CPU-bound parallel work:
// parser pool capacity and extraction worker count.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
//   - Minimum 4: some parallelism even on weak machines
//   - 2x CPU cores: tokenization blocks in CGO, extra goroutines keep cores busy
//   - Maximum 32: caps memory on high-core machines
//
// Worker count must not exceed parser pool capacity or workers block on
// acquire; using one function for both keeps them in sync.
func GetOptimalPoolSize() int {
	cores := runtime.NumCPU()
	poolSize := cores * 2

	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}

	return poolSize
}

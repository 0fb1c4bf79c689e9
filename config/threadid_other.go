//go:build !unix && !windows

package config

// currentThreadID has no OS-level meaning on platforms without real
// threads (e.g. wasm); everything shares thread 0, which is correct since
// there's nothing to distinguish it from.
func currentThreadID() int64 {
	return 0
}

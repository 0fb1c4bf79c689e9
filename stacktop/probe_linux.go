//go:build linux

package stacktop

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// defaultProbe finds the current thread's stack region by reading its own
// /proc/self/task/<tid>/maps entry: the kernel labels the stack mapping
// "[stack]" for the main thread and "[stack:<tid>]" for others, and on
// every supported architecture the stack grows down, so the region's high
// address is the thread's stack top.
var defaultProbe Probe = linuxProbe

func linuxProbe() (uintptr, error) {
	tid := unix.Gettid()
	path := fmt.Sprintf("/proc/self/task/%d/maps", tid)
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("stacktop: open %s: %w", path, err)
	}
	defer f.Close()

	want := "[stack]"
	if tid != unix.Getpid() {
		want = fmt.Sprintf("[stack:%d]", tid)
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasSuffix(line, want) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		addrs := strings.SplitN(fields[0], "-", 2)
		if len(addrs) != 2 {
			continue
		}
		high, err := strconv.ParseUint(addrs[1], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("stacktop: parse %s: %w", line, err)
		}
		return uintptr(high), nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("stacktop: scan %s: %w", path, err)
	}
	return 0, fmt.Errorf("stacktop: no %s mapping found in %s", want, path)
}

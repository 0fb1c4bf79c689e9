//go:build debug

package assert

import (
	"fmt"
	"os"
)

func check(cond bool, msg string) {
	if !cond {
		panic("idxpool: assertion failed: " + msg)
	}
}

func warn(cond bool, msg string) {
	if !cond {
		fmt.Fprintln(os.Stderr, "idxpool: warning:", msg)
	}
}

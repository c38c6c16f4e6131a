// Package diag provides gated pipeline tracing. Logging setup proper is an
// excluded collaborator (see spec §1); this package only offers the same
// on/off trace faucet the teacher's internal/debug package does, so tests
// can silence or capture it without pulling in a logging framework.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	enabled bool
	out     io.Writer = os.Stderr
)

// SetEnabled turns pipeline tracing on or off. Disabled by default.
func SetEnabled(v bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = v
}

// SetOutput redirects trace output. Passing nil disables tracing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Tracef writes a formatted trace line if tracing is enabled.
func Tracef(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled || out == nil {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

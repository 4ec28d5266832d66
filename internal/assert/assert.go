// Package assert checks invariants that only a bug in this module can break. Malformed diagram
// source never triggers an assertion, it is reported as a [github.com/teleivo/merm.Error].
package assert

import "fmt"

// That panics with msg formatted using args if condition is false.
func That(condition bool, msg string, args ...any) {
	if condition {
		return
	}

	if len(args) > 0 {
		panic("assertion failed: " + fmt.Sprintf(msg, args...))
	}
	panic("assertion failed: " + msg)
}

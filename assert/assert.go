package assert

import "fmt"

func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func AssertNotEmpty(s string) {
	if s == "" {
		panic("expected non-empty string")
	}
}

func AssertNotNil(a any) {
	if a == nil {
		panic("expect non-nil value")
	}
}

// AssertNonNegative panics when a counter that can only
// grow or be decremented after an increment drops below zero.
func AssertNonNegative(name string, n int) {
	if n < 0 {
		panic(fmt.Sprintf("expected %s to be non-negative but got %d", name, n))
	}
}

package dispatch

import (
	"runtime/debug"
	"time"
)

// Recover runs fn and captures its outcome. A returned error or a panic is
// reported in the Result; neither escapes Recover.
func Recover(fn func() error) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
		}
	}()

	if err := fn(); err != nil {
		result.Success = false
		result.Error = err
	} else {
		result.Success = true
	}

	return result
}

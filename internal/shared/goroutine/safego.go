// Package goroutine provides utilities for running work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/leadhub/leadhub/internal/shared/logger"
)

// SafeRun runs fn on the calling goroutine and converts a panic into an error.
// Scheduled passes use it so one bad pass never takes the scheduler down.
func SafeRun(log logger.Interface, name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic",
				"task", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	fn()
	return nil
}

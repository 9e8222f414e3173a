package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/lixenwraith/moodflight/logger"
)

var crashHook atomic.Pointer[func(any)]

// SetCrashHandler installs a hook run before the process exits on a panic.
// The terminal presenter uses it to restore the tty.
func SetCrashHandler(fn func(r any)) {
	if fn == nil {
		crashHook.Store(nil)
		return
	}
	crashHook.Store(&fn)
}

// HandleCrash logs the panic with its stack, runs the crash hook and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	stack := debug.Stack()
	logger.Log.WithField("panic", r).Errorf("crash detected\n%s", stack)

	if hook := crashHook.Load(); hook != nil {
		(*hook)(r)
	}

	fmt.Fprintf(os.Stderr, "\nCRASH DETECTED: %v\nStack Trace:\n%s\n", r, stack)
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so the terminal is restored on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

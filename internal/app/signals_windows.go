//go:build windows

package app

import "os"

// There is no SIGCONT on Windows.
func contSignals() []os.Signal {
	return nil
}

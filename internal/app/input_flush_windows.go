//go:build windows

package app

import "golang.org/x/sys/windows"

// flushConsoleInput drops keys typed into the console while an external
// editor owned it, so they are not replayed into the buffer.
func flushConsoleInput() error {
	handle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return err
	}
	return windows.FlushConsoleInputBuffer(handle)
}

//go:build !windows

package main

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// terminalInfo reports the column count of f and whether f is a terminal.
// COLUMNS is used when the size cannot be queried.
func terminalInfo(f *os.File) (width int, tty bool) {
	fd := int(f.Fd())
	if ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ); err == nil && ws != nil {
		tty = true
		if ws.Col > 0 {
			return int(ws.Col), tty
		}
	}
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n, tty
		}
	}
	return 0, tty
}

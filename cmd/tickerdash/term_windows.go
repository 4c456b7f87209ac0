//go:build windows

package main

import (
	"os"
	"strconv"
)

// terminalInfo falls back to COLUMNS; a set COLUMNS is taken as a console.
func terminalInfo(_ *os.File) (width int, tty bool) {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// Package rvlog provides the session core's write-only diagnostic log.
//
// Every UART byte, debug CSR print, and setup-time warning the core
// produces is appended here and flushed immediately: a crash mid-boot must
// never lose the tail of the log, matching libkarv.c's own
// fprintf-then-fflush pairs.
package rvlog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger appends to a single append-only sink, flushing after every write.
type Logger struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

// Open creates (truncating) the named log file for the lifetime of a
// session. Matches libkarv.c's setup(), which opens "rvlog.txt" with "w".
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("rvlog: open %s: %w", path, err)
	}
	return &Logger{w: f, file: f}, nil
}

// NewDiscard returns a Logger that drops everything written to it. Used by
// tests that don't want rvlog.txt littering the working directory.
func NewDiscard() *Logger {
	return &Logger{w: io.Discard}
}

// Byte appends a single raw byte, as the UART TX path does for every
// character the guest sends.
func (l *Logger) Byte(b byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write([]byte{b})
	l.flushLocked()
}

// String appends s verbatim, used by the debug-CSR string/decimal/hex
// print paths.
func (l *Logger) String(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, s)
	l.flushLocked()
}

// Printf appends a formatted diagnostic line; the format supplies any
// trailing newline.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
	l.flushLocked()
}

func (l *Logger) flushLocked() {
	if l.file != nil {
		_ = l.file.Sync()
	}
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

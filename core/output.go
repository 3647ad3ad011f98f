package core

import (
	"bufio"
	"io"
)

// Output receives printed characters. Every character is flushed right after
// it is written.
type Output interface {
	io.Writer
	Flush() error
}

// NewFlushWriter wraps w so that it satisfies Output.
func NewFlushWriter(w io.Writer) Output {
	if o, ok := w.(Output); ok {
		return o
	}
	return bufio.NewWriter(w)
}

type discardOutput struct{}

func (discardOutput) Write(p []byte) (int, error) { return len(p), nil }

func (discardOutput) Flush() error { return nil }

// Discard is an Output that drops everything. It holds no buffer, so any
// number of interpreters can share it.
var Discard Output = discardOutput{}

//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package utils

import (
	"fmt"
	"io"
)

// Logger implements the compiler logging facility.
type Logger struct {
	out io.Writer
}

// NewLogger creates a new logger outputting to the argument io.Writer.
func NewLogger(out io.Writer) *Logger {
	return &Logger{
		out: out,
	}
}

// Errorf logs an error message and returns it as a diagnostic error of
// the argument kind.
func (l *Logger) Errorf(kind Kind, loc Point, format string,
	a ...interface{}) *Error {

	err := Errorf(kind, loc, format, a...)
	fmt.Fprintf(l.out, "%s\n", err)
	return err
}

// Warningf logs a warning message.
func (l *Logger) Warningf(loc Point, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if len(msg) > 0 && msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	if loc.Undefined() {
		fmt.Fprintf(l.out, "%s: warning: %s", loc.Source, msg)
	} else {
		fmt.Fprintf(l.out, "%s: warning: %s", loc, msg)
	}
}

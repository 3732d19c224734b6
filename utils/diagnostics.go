package utils

import (
	"log"
	"os"
)

var stderrLog = log.New(os.Stderr, "ENVI: ", log.Ldate|log.Ltime)

// Diagnostics carries the quiet switch and the destination of
// non-fatal parse and load messages. The zero value writes to
// stderr; set Quiet to silence everything.
type Diagnostics struct {
	Quiet  bool
	Logger *log.Logger
}

// Quiet returns diagnostics that drop every message.
func Quiet() Diagnostics {
	return Diagnostics{Quiet: true}
}

// Verbose returns diagnostics that write to the given logger,
// or to stderr when logger is nil.
func Verbose(logger *log.Logger) Diagnostics {
	return Diagnostics{Logger: logger}
}

func (d Diagnostics) Printf(format string, v ...interface{}) {
	if d.Quiet {
		return
	}
	l := d.Logger
	if l == nil {
		l = stderrLog
	}
	l.Printf(format, v...)
}

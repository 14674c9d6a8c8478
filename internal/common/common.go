// Package common provides small helpers shared across packfold's
// packages: writer helpers that treat I/O failure on stdout/log files
// as fatal.
package common

import (
	"fmt"
	"io"
	"log"
)

// MustFprintf writes a formatted string to w, exiting the process on
// failure. Used for progress/report output where a write failure means
// the output stream is broken and continuing would be misleading.
func MustFprintf(w io.Writer, format string, args ...interface{}) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		log.Fatalf("write failed: %v", err)
	}
}

// Package logging sets up the Info/Error/Debug logger triad the rest of
// the core writes through: file-backed std-library loggers, one stream
// per severity, rather than a structured logging library.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Loggers bundles the three severity streams a component is handed at
// construction, so call sites never touch package-level globals.
type Loggers struct {
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
}

// Setup creates (or appends to) dir/core.log and dir/core-error.log and
// returns loggers writing to them. Debug additionally mirrors to stderr
// when debug is true, surfacing verbose output only when asked.
func Setup(dir string, debug bool) (*Loggers, error) {
	if dir == "" {
		dir = "./logs"
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	fInfo, err := os.OpenFile(filepath.Join(dir, "core.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	fErr, err := os.OpenFile(filepath.Join(dir, "core-error.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	var debugWriter io.Writer = fInfo
	if debug {
		debugWriter = io.MultiWriter(fInfo, os.Stderr)
	}

	return &Loggers{
		Info:  log.New(fInfo, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		Error: log.New(fErr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		Debug: log.New(debugWriter, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}, nil
}

// Discard returns loggers that write nowhere, for tests and short-lived
// tools that have no log directory of their own.
func Discard() *Loggers {
	return &Loggers{
		Info:  log.New(io.Discard, "INFO: ", 0),
		Error: log.New(io.Discard, "ERROR: ", 0),
		Debug: log.New(io.Discard, "DEBUG: ", 0),
	}
}

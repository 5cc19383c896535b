package wad

import (
	"io"
	"log"
)

var logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger sets the logger used for load progress and decode warnings.
func SetLogger(l *log.Logger) {
	logger = l
}

func warnf(format string, args ...any) {
	logger.Printf("Warning: "+format, args...)
}

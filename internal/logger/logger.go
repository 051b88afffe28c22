package logger

import (
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger wraps the standard log.Logger with render helpers for search output
type Logger struct {
	*log.Logger
}

// New creates a new logger writing to stdout
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Progress renders one snapshot line: cumulative attempts and the average
// generation rate since the search started.
func (l *Logger) Progress(attempts int64, rate float64) {
	l.Printf("Searched addresses: %s (~%s/sec)", humanize.Comma(attempts), humanize.Comma(int64(rate)))
}

// Found renders the notification line for a discovered address.
func (l *Logger) Found(addr string) {
	l.Printf("Found! %s", addr)
}

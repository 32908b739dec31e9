// Package logging configures the application logger. Logs go to a file:
// stdout belongs to the terminal UI and must stay clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Open returns a logger writing to the given file, creating parent
// directories as needed. The returned closer flushes the file on exit.
func Open(path string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := zerolog.New(f).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
	return logger, f, nil
}

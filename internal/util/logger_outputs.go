package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// StreamOutput writes log entries to an io.Writer
type StreamOutput struct {
	writer io.Writer
	closer io.Closer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates an output writing to stderr
func NewConsoleOutput(format LogFormat) Output {
	return NewWriterOutput(os.Stderr, format)
}

// NewWriterOutput creates an output writing to an arbitrary writer
func NewWriterOutput(w io.Writer, format LogFormat) Output {
	return &StreamOutput{writer: w, format: format}
}

// NewFileOutput creates an output appending to the file at path, creating parent directories
func NewFileOutput(path string, format LogFormat) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &StreamOutput{writer: file, closer: file, format: format}, nil
}

// Write writes a log entry
func (s *StreamOutput) Write(entry LogEntry) error {
	line, err := formatEntry(entry, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = fmt.Fprintln(s.writer, line)
	return err
}

// Close closes the underlying writer when it owns one
func (s *StreamOutput) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func formatEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	line := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	if len(entry.Fields) == 0 {
		return line, nil
	}

	// Sorted keys keep lines diffable
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
	}
	return line + " " + strings.Join(parts, " "), nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var ErrLogClosed = errors.New("candidate log is closed")

// CandidateLog is an append-only sink for redacted candidate records.
type CandidateLog interface {
	Append(ctx context.Context, record StoredCandidate) error
	Close() error
}

// FileLog keeps every record in one JSON array file. Each append rewrites
// the whole file; unreadable or corrupt content is treated as no history.
type FileLog struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenFileLog prepares a log at path, creating its directory if needed.
// The file itself is created on first append.
func OpenFileLog(path string) (*FileLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	return &FileLog{path: path}, nil
}

func (l *FileLog) Path() string {
	return l.path
}

// Append adds record to the end of the array. The read-modify-write runs
// under the log's lock and lands through a rename.
func (l *FileLog) Append(_ context.Context, record StoredCandidate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLogClosed
	}

	entries := l.readEntries()

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling candidate record: %w", err)
	}
	entries = append(entries, encoded)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling candidate log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", l.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("error replacing %s: %w", l.path, err)
	}
	return nil
}

// readEntries returns prior records as raw JSON so they are rewritten untouched.
func (l *FileLog) readEntries() []json.RawMessage {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.S().Named("candidate_log").Warnf("unreadable candidate log %s, starting empty: %v", l.path, err)
		}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		zap.S().Named("candidate_log").Warnf("corrupt candidate log %s, starting empty: %v", l.path, err)
		return nil
	}
	return entries
}

// ReadAll returns every stored record; a missing or corrupt file reads as empty.
func (l *FileLog) ReadAll() []StoredCandidate {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []StoredCandidate
	for _, raw := range l.readEntries() {
		var rec StoredCandidate
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// OpenLog opens the backend named by driver: "file" uses path, "postgres" and "sqlite" use dsn.
func OpenLog(driver, path, dsn string) (CandidateLog, error) {
	switch driver {
	case "", "file":
		return OpenFileLog(path)
	default:
		return OpenGormLog(driver, dsn)
	}
}

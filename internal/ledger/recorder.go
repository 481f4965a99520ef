package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrRecorderClosed is returned when recording after Close.
var ErrRecorderClosed = errors.New("audit recorder closed")

// Recorder mirrors ledger appends somewhere durable.
type Recorder interface {
	Record(TradeRecord) error
}

// JSONLRecorder appends one JSON object per line to a file. It is never
// truncated, so it outlives the 500-record ledger.
type JSONLRecorder struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewJSONLRecorder opens path for appending, creating parent directories.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	return &JSONLRecorder{path: path, file: file}, nil
}

// Record writes rec as a single line. The line is written with one call so a
// failed write never leaves a partial object behind a later record.
func (r *JSONLRecorder) Record(rec TradeRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return ErrRecorderClosed
	}
	if _, err := r.file.Write(line); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

// Close releases the file. Later Record calls return ErrRecorderClosed.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

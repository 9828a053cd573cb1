package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"sweepbot-go/internal/metrics"
)

// JSONLRecorder appends settlement records as JSON lines. Lines are never
// rewritten or deleted here; the outbox grows without bound.
//
// The mutex serializes writers inside one process only. Concurrent processes
// appending to the same outbox are unsupported and may interleave.
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewJSONLRecorder creates the outbox file and its parent directory if absent.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Append writes one record as a single line.
func (r *JSONLRecorder) Append(record SettlementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(record); err != nil {
		return err
	}
	metrics.AuditRecordsTotal.Inc()
	return nil
}

// Close releases the file handle.
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

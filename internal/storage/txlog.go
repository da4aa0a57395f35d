package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"carbondash/internal/model"
)

// TxLog appends transaction audit entries as JSON lines.
type TxLog struct {
	path string
	mu   sync.Mutex
}

func NewTxLog(path string) *TxLog {
	return &TxLog{path: path}
}

// Append writes a batch of entries, one JSON object per line.
func (l *TxLog) Append(entries []model.TxLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tx log dir: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open tx log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal tx log entry: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write tx log entry: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush tx log: %w", err)
	}
	return nil
}

package logging

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"renamer/internal/domain/model"
	"renamer/internal/infra/config"
)

type Logger interface {
	Log(ctx context.Context, entry model.OperationLogEntry) error
}

type noopLogger struct{}

func (n noopLogger) Log(context.Context, model.OperationLogEntry) error { return nil }

func NewNoopLogger() Logger { return noopLogger{} }

type operationLogger struct {
	mu   sync.Mutex
	file *os.File
}

func NewOperationLogger(ctx context.Context, disabled bool) (Logger, error) {
	if disabled {
		return noopLogger{}, nil
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "operations.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	_ = ctx
	return &operationLogger{file: f}, nil
}

func (l *operationLogger) Log(_ context.Context, entry model.OperationLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = l.file.Write(append(b, '\n'))
	return err
}

type debugLogger struct {
	next Logger
	log  *log.Logger
}

// WithDebug echoes every entry to w as a leveled text line before passing it
// on to next.
func WithDebug(next Logger, w io.Writer) Logger {
	return &debugLogger{
		next: next,
		log:  &log.Logger{Handler: text.New(w), Level: log.DebugLevel},
	}
}

func (d *debugLogger) Log(ctx context.Context, entry model.OperationLogEntry) error {
	e := d.log.WithFields(log.Fields{
		"pass":   entry.Pass,
		"src":    entry.Path,
		"dst":    entry.Target,
		"result": entry.Result,
	})
	if entry.Error != "" {
		e = e.WithField("error", entry.Error)
	}
	e.Debug(entry.Action)
	return d.next.Log(ctx, entry)
}

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultMaxFileSize = 100 * 1024 * 1024

// RotatingLogger writes to one JSON log file per ISO week under the log
// directory (consultation-2026-W36.log). A file that outgrows the size limit
// rolls over to numbered parts within the same week (_01, _02, ...). A
// background sweep deletes files older than the retention window.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu   sync.Mutex
	file *os.File
	week string
	size int64

	ctx       context.Context
	cancel    context.CancelFunc
	sweepDone chan struct{}
}

// NewRotatingLogger creates a rotating logger with the default 100MB file
// size limit and starts its retention sweep.
func NewRotatingLogger(dir string, retentionWeeks int) *RotatingLogger {
	return NewRotatingLoggerWithSizeLimit(dir, retentionWeeks, defaultMaxFileSize)
}

// NewRotatingLoggerWithSizeLimit creates a rotating logger with an explicit
// per-file size limit. A limit of 0 disables size rollover.
func NewRotatingLoggerWithSizeLimit(dir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	ctx, cancel := context.WithCancel(context.Background())
	rl := &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		sweepDone:   make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// weekKey returns the ISO week key, e.g. "2026-W36".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current week's file, rotating first when the week
// changed or the write would push the file past the size limit.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(time.Now())
	sizeRollover := rl.maxFileSize > 0 && rl.file != nil && rl.size+int64(len(p)) > rl.maxFileSize
	if rl.file == nil || rl.week != week || sizeRollover {
		if err := rl.rotate(week, sizeRollover); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// rotate opens the file the next write should land in. Caller holds mu.
func (rl *RotatingLogger) rotate(week string, sizeRollover bool) error {
	if rl.file != nil {
		if err := rl.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
		}
		rl.file = nil
	}

	name := rl.targetFile(week, sizeRollover)
	path := filepath.Join(rl.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = file
	rl.week = week
	rl.size = 0
	if info, err := file.Stat(); err == nil {
		rl.size = info.Size()
	}
	return nil
}

var partNumberRe = regexp.MustCompile(`_(\d{2})\.log$`)

// targetFile picks the file name for the week: the base weekly file while it
// has room, then the highest numbered part that still has room, then a fresh
// part.
func (rl *RotatingLogger) targetFile(week string, sizeRollover bool) string {
	base := fmt.Sprintf("consultation-%s.log", week)
	if !sizeRollover {
		info, err := os.Stat(filepath.Join(rl.dir, base))
		if err != nil || rl.maxFileSize == 0 || info.Size() < rl.maxFileSize {
			return base
		}
	}

	parts, _ := filepath.Glob(filepath.Join(rl.dir, fmt.Sprintf("consultation-%s_*.log", week)))
	highest := 0
	lastName := ""
	var lastSize int64
	for _, p := range parts {
		m := partNumberRe.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		if num > highest {
			highest = num
			lastName = filepath.Base(p)
			lastSize = 0
			if info, err := os.Stat(p); err == nil {
				lastSize = info.Size()
			}
		}
	}
	if lastName != "" && lastSize < rl.maxFileSize {
		return lastName
	}
	return fmt.Sprintf("consultation-%s_%02d.log", week, highest+1)
}

func (rl *RotatingLogger) sweepLoop() {
	defer close(rl.sweepDone)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			if err := rl.sweepOldLogs(); err != nil {
				// Stderr, not slog: logging about the log files must
				// not recurse into them
				fmt.Fprintf(os.Stderr, "log sweep: %v\n", err)
			}
		}
	}
}

// sweepOldLogs deletes log files whose last write predates the retention
// window. Non-log files in the directory are left alone.
func (rl *RotatingLogger) sweepOldLogs() error {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "consultation-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(rl.dir, name))
		}
	}
	return nil
}

// Close stops the retention sweep and closes the current file.
func (rl *RotatingLogger) Close() error {
	rl.cancel()
	<-rl.sweepDone

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file != nil {
		err := rl.file.Close()
		rl.file = nil
		return err
	}
	return nil
}

// setupLogger builds the slog logger the server runs on: text lines on the
// console, JSON lines in the weekly rotating file. When the log directory
// cannot be created the file half is dropped and the console keeps working.
func setupLogger(logDir string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create logs directory", "error", err)
		return logger
	}

	rotating := NewRotatingLoggerWithSizeLimit(logDir, retentionWeeks, maxFileSize)
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&teeHandler{handlers: []slog.Handler{console, fileHandler}})
}

// teeHandler fans every record out to all of its handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: handlers}
}

package todolist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/errs"
)

// Committer records a changed file, typically in version control.
type Committer interface {
	Commit(path, message string) error
}

// Tracker answers queries against a checklist file on disk. It keeps no
// parsed state: each call reads the file again.
//
// Writes through one Tracker are serialised. Writers in other processes are
// not coordinated; the last rename wins.
type Tracker struct {
	mu   sync.RWMutex
	path string

	writeMu   sync.Mutex
	committer Committer
	logger    *zap.Logger
}

type Option func(*Tracker)

// WithCommitter commits the file after every successful MarkComplete.
func WithCommitter(c Committer) Option {
	return func(t *Tracker) { t.committer = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

func NewTracker(path string, opts ...Option) *Tracker {
	t := &Tracker{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Path() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}

// SetPath points the tracker at another file. The file must exist.
func (t *Tracker) SetPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.NotFound(err, errs.CodeTodolistNotFound,
				fmt.Sprintf("todolist file not found: %s", path))
		}
		return err
	}
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
	t.logger.Info("todolist switched", zap.String("path", path))
	return nil
}

func (t *Tracker) read() (string, string, error) {
	path := t.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, "", errs.NotFound(err, errs.CodeTodolistNotFound,
				fmt.Sprintf("todolist file not found: %s", path))
		}
		return path, "", fmt.Errorf("read todolist: %w", err)
	}
	return path, string(data), nil
}

// Load parses the current contents of the file.
func (t *Tracker) Load() ([]Task, error) {
	_, text, err := t.read()
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// NextPending returns the first incomplete task, or nil when all are done.
func (t *Tracker) NextPending() (*Task, error) {
	tasks, err := t.Load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if !tasks[i].Completed {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// ListPending returns up to limit pending tasks whose section contains
// section (all sections when empty), plus the pending count before the limit
// was applied.
func (t *Tracker) ListPending(limit int, section string) ([]Task, int, error) {
	if limit <= 0 {
		return nil, 0, errs.Invalid(errs.CodeInvalidLimit, "limit must be positive, got %d", limit)
	}
	tasks, err := t.Load()
	if err != nil {
		return nil, 0, err
	}
	pending := FilterSection(Pending(tasks), section)
	total := len(pending)
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, total, nil
}

// Find returns the task on line, or nil when that line holds no task.
func (t *Tracker) Find(line int) (*Task, error) {
	if line < 0 {
		return nil, errs.Invalid(errs.CodeInvalidLine, "line number must not be negative, got %d", line)
	}
	tasks, err := t.Load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].LineNumber == line {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Stats summarises completion across the file.
func (t *Tracker) Stats() (Stats, error) {
	tasks, err := t.Load()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(tasks), nil
}

// MarkComplete checks the box on line. It reports false, leaving the file
// untouched, when line is past the end or has no unchecked box. Only the
// first "- [ ]" on the line changes; every other byte is written back as
// read.
func (t *Tracker) MarkComplete(line int) (bool, error) {
	if line < 0 {
		return false, errs.Invalid(errs.CodeInvalidLine, "line number must not be negative, got %d", line)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	path, text, err := t.read()
	if err != nil {
		return false, err
	}

	lines := strings.Split(text, "\n")
	if line >= len(lines) || !strings.Contains(lines[line], Unchecked) {
		return false, nil
	}
	lines[line] = strings.Replace(lines[line], Unchecked, Checked, 1)

	if err := writeFileAtomic(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return false, fmt.Errorf("write todolist: %w", err)
	}

	title := ""
	if m := checkboxPattern.FindStringSubmatch(lines[line]); m != nil {
		title = StripBold(m[3])
	}
	t.logger.Info("task completed",
		zap.String("path", path),
		zap.Int("line", line),
		zap.String("title", title))

	if t.committer != nil {
		msg := fmt.Sprintf("Complete: %s", title)
		if err := t.committer.Commit(path, msg); err != nil {
			t.logger.Warn("auto-commit failed", zap.String("path", path), zap.Error(err))
		}
	}

	return true, nil
}

// writeFileAtomic replaces path through a temp file in the same directory.
// The mode of an existing file is kept.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

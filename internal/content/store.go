package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/todolist"
)

// Kind names the subdirectory a unit of content is saved under.
type Kind string

const (
	KindCourses   Kind = "courses"
	KindQuestions Kind = "questions"
	KindMaterials Kind = "materials"
)

var Kinds = []Kind{KindCourses, KindQuestions, KindMaterials}

// Metadata leads every saved file. Task fields are set only when the save
// names a checklist line that holds a task.
type Metadata struct {
	GeneratedAt  string `json:"generated_at"`
	GenerationID string `json:"generation_id"`
	LineNumber   *int   `json:"line_number,omitempty"`
	LessonOrder  int    `json:"lesson_order,omitempty"`
	TaskOrder    int    `json:"task_order,omitempty"`
	Section      string `json:"section,omitempty"`
	Subsection   string `json:"subsection,omitempty"`
	ParentTitle  string `json:"parent_title,omitempty"`
	IsSubLesson  *bool  `json:"is_sub_lesson,omitempty"`
}

// Saved describes a file written by the store.
type Saved struct {
	Kind     Kind      `json:"kind"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Words    WordCount `json:"words"`
	Metadata Metadata  `json:"metadata"`
}

type courseFile struct {
	Metadata Metadata `json:"_metadata"`
	Course
}

type questionFile struct {
	Metadata Metadata `json:"_metadata"`
	QuestionBatch
}

type materialFile struct {
	Metadata Metadata `json:"_metadata"`
	MaterialBatch
}

// Store writes generated content below a root directory.
type Store struct {
	dir       string
	now       func() time.Time
	newID     func() string
	committer todolist.Committer
	logger    *zap.Logger
}

type Option func(*Store)

// WithCommitter commits each saved file.
func WithCommitter(c todolist.Committer) Option {
	return func(s *Store) { s.committer = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) metadata(id string, task *todolist.Task) Metadata {
	m := Metadata{
		GeneratedAt:  s.now().UTC().Format(time.RFC3339),
		GenerationID: id,
	}
	if task != nil {
		line := task.LineNumber
		m.LineNumber = &line
		m.Section = task.Section
		m.Subsection = task.Subsection
		m.ParentTitle = task.Parent
	}
	return m
}

// SaveCourse writes a lesson. task and order place it in the checklist;
// task may be nil and order 0 when unknown.
func (s *Store) SaveCourse(c Course, task *todolist.Task, order int) (*Saved, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := s.newID()
	meta := s.metadata(id, task)
	meta.LessonOrder = order
	var section, subsection string
	if task != nil {
		section, subsection = task.Section, task.Subsection
		sub := task.Indent > 0 && task.Parent != ""
		meta.IsSubLesson = &sub
	}

	suffix := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + shortID(id)
	name := CourseFileName(order, section, subsection, c.ChapterTitle, suffix)
	return s.write(KindCourses, name, courseFile{Metadata: meta, Course: c}, CountWords(c), meta)
}

func (s *Store) SaveQuestions(b QuestionBatch, task *todolist.Task, order int) (*Saved, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	id := s.newID()
	meta := s.metadata(id, task)
	meta.TaskOrder = order
	section := ""
	if task != nil {
		section = task.Section
	}

	name := BatchFileName(KindQuestions, order, section, b.BatchInfo, shortID(id))
	return s.write(KindQuestions, name, questionFile{Metadata: meta, QuestionBatch: b}, CountWords(b), meta)
}

func (s *Store) SaveMaterials(b MaterialBatch, task *todolist.Task, order int) (*Saved, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	id := s.newID()
	meta := s.metadata(id, task)
	meta.TaskOrder = order
	section := ""
	if task != nil {
		section = task.Section
	}

	name := BatchFileName(KindMaterials, order, section, b.BatchInfo, shortID(id))
	return s.write(KindMaterials, name, materialFile{Metadata: meta, MaterialBatch: b}, CountWords(b), meta)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *Store) write(kind Kind, name string, v any, words WordCount, meta Metadata) (*Saved, error) {
	dir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", kind, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Info("content saved",
		zap.String("kind", string(kind)),
		zap.String("file", name),
		zap.Int("chinese_chars", words.ChineseChars))

	if s.committer != nil {
		if err := s.committer.Commit(path, fmt.Sprintf("Add generated %s: %s", kind, name)); err != nil {
			s.logger.Warn("auto-commit failed", zap.String("path", path), zap.Error(err))
		}
	}

	return &Saved{Kind: kind, Name: name, Path: path, Words: words, Metadata: meta}, nil
}

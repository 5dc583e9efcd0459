package server

import "sync"

// Session is the mutable state of one MCP connection: which checklist is
// in use and how continuous generation is configured.
type Session struct {
	mu           sync.Mutex
	todolistFile string
	continuous   bool
	maxTasks     int
	saved        int
}

func NewSession(todolistFile string, maxTasks int) *Session {
	if maxTasks < 1 {
		maxTasks = 10
	}
	return &Session{todolistFile: todolistFile, maxTasks: maxTasks}
}

func (s *Session) TodolistFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todolistFile
}

func (s *Session) SetTodolistFile(f string) {
	s.mu.Lock()
	s.todolistFile = f
	s.mu.Unlock()
}

// Continuous reports the mode and the per-run task cap.
func (s *Session) Continuous() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.continuous, s.maxTasks
}

// SetContinuous switches the mode and restarts the saved-task count.
func (s *Session) SetContinuous(enabled bool, maxTasks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continuous = enabled
	if maxTasks > 0 {
		s.maxTasks = maxTasks
	}
	s.saved = 0
}

// RecordSave counts one saved unit and reports whether continuous mode
// should hand out another task.
func (s *Session) RecordSave() (continueRun bool, saved int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return s.continuous && s.saved < s.maxTasks, s.saved
}

func (s *Session) Saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

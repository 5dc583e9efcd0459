// Package todolist reads and updates the content-creation checklist: a
// markdown file of "- [ ]" items grouped under section headings.
//
// The file is the only state. Every query re-reads it, so edits made in an
// editor between calls are always visible.
package todolist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	Unchecked = "- [ ]"
	Checked   = "- [x]"

	// boldDelimiter marks a parent task title, e.g. "- [ ] **Group 1**".
	boldDelimiter = "**"
)

// Captures indent, checkbox state and title:
// "  - [x] Task name" -> ["  ", "x", "Task name"]
// Indentation may use Unicode spaces such as U+3000 and U+00A0.
var checkboxPattern = regexp.MustCompile(`^([\s\p{Zs}]*)- \[([ xX])\][\s\p{Zs}]*(.+)$`)

// Task is one checkbox line of the checklist.
type Task struct {
	LineNumber int    `json:"line_number"`
	Indent     int    `json:"indent"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	Parent     string `json:"parent,omitempty"`
	Section    string `json:"section"`
	Subsection string `json:"subsection"`
}

// IsParent reports whether the task heads a group of indented children.
func (t Task) IsParent() bool {
	return strings.Contains(t.Title, boldDelimiter)
}

// DisplayTitle is the title without bold markers.
func (t Task) DisplayTitle() string {
	return StripBold(t.Title)
}

// StripBold removes every bold delimiter and trims the result.
func StripBold(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, boldDelimiter, ""))
}

func isSectionHeading(line string) bool {
	return strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ")
}

func isSubsectionHeading(line string) bool {
	return strings.HasPrefix(line, "#### ") || strings.HasPrefix(line, "##### ")
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// Parse scans text once, top to bottom. Headings update the section context
// and never produce tasks; checkbox lines become tasks carrying the context
// seen so far. Line numbers are 0-based indexes into text split on "\n".
func Parse(text string) []Task {
	var (
		tasks             []Task
		currentSection    string
		currentSubsection string
		lastParent        string
	)

	for i, line := range strings.Split(text, "\n") {
		if isSectionHeading(line) {
			currentSection = headingText(line)
			currentSubsection = ""
			continue
		}
		if isSubsectionHeading(line) {
			currentSubsection = headingText(line)
			continue
		}

		match := checkboxPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		indent := utf8.RuneCountInString(match[1])
		title := match[3]
		if strings.Contains(title, boldDelimiter) {
			lastParent = StripBold(title)
		}

		task := Task{
			LineNumber: i,
			Indent:     indent,
			Title:      strings.TrimSpace(title),
			Completed:  strings.EqualFold(match[2], "x"),
			Section:    currentSection,
			Subsection: currentSubsection,
		}
		if indent > 0 {
			task.Parent = lastParent
		}
		tasks = append(tasks, task)
	}

	return tasks
}

// Pending returns the incomplete tasks in document order.
func Pending(tasks []Task) []Task {
	var pending []Task
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending
}

// FilterSection keeps tasks whose section contains filter (case-sensitive).
// An empty filter keeps everything.
func FilterSection(tasks []Task, filter string) []Task {
	if filter == "" {
		return tasks
	}
	var kept []Task
	for _, t := range tasks {
		if strings.Contains(t.Section, filter) {
			kept = append(kept, t)
		}
	}
	return kept
}

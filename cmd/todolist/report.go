package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

// statsRows is one row per section in document order.
func statsRows(stats todolist.Stats, sections []string) [][]string {
	rows := make([][]string, 0, len(sections))
	for _, name := range sections {
		s := stats.BySection[name]
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", s.Completed),
			fmt.Sprintf("%d", s.Pending),
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d%%", s.Percent()),
		})
	}
	return rows
}

func statsTable(stats todolist.Stats, sections []string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(colors.border).
		Headers("Section", "Done", "Pending", "Total", "%").
		Rows(statsRows(stats, sections)...)
}

// buildReport writes the progress report as markdown.
func buildReport(source string, tasks []todolist.Task, entries []content.Entry, unimported int) string {
	stats := todolist.ComputeStats(tasks)
	var b strings.Builder

	fmt.Fprintf(&b, "# Progress: %s\n\n", source)
	fmt.Fprintf(&b, "`%s` **%d/%d** (%d%%), %d pending\n\n",
		content.ProgressBar(stats.Completed, stats.Total), stats.Completed, stats.Total, stats.Percent(), stats.Pending)

	b.WriteString("## Sections\n\n| Section | Done | Pending | Total | % |\n|---|---|---|---|---|\n")
	for _, row := range statsRows(stats, todolist.Sections(tasks)) {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}

	b.WriteString("\n## Generated content\n\n")
	if len(entries) == 0 {
		b.WriteString("Nothing generated yet.\n")
		return b.String()
	}

	counts := make(map[content.Kind]int)
	chars := make(map[content.Kind]int)
	for _, e := range entries {
		counts[e.File.Kind]++
		chars[e.File.Kind] += e.Words.ChineseChars
	}
	b.WriteString("| Kind | Files | 中文字 |\n|---|---|---|\n")
	for _, k := range content.Kinds {
		if counts[k] == 0 {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %d |\n", k, counts[k], chars[k])
	}
	fmt.Fprintf(&b, "\n%d of %d files not yet imported.\n", unimported, len(entries))
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

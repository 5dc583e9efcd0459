package todolist

import "math"

// UncategorizedSection keys tasks that appear before any section heading.
const UncategorizedSection = "未分类"

type SectionStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type Stats struct {
	Total     int                     `json:"total"`
	Completed int                     `json:"completed"`
	Pending   int                     `json:"pending"`
	BySection map[string]SectionStats `json:"by_section"`
}

// Percent is the completion ratio rounded to the nearest integer, 0 when
// there are no tasks.
func (s Stats) Percent() int {
	return percent(s.Completed, s.Total)
}

func (s SectionStats) Percent() int {
	return percent(s.Completed, s.Total)
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ComputeStats aggregates tasks overall and per section.
func ComputeStats(tasks []Task) Stats {
	stats := Stats{BySection: make(map[string]SectionStats)}
	for _, t := range tasks {
		key := t.Section
		if key == "" {
			key = UncategorizedSection
		}
		sec := stats.BySection[key]
		sec.Total++
		stats.Total++
		if t.Completed {
			sec.Completed++
			stats.Completed++
		} else {
			sec.Pending++
		}
		stats.BySection[key] = sec
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

// Sections returns the section keys in the order they first appear in tasks.
func Sections(tasks []Task) []string {
	seen := make(map[string]bool)
	var order []string
	for _, t := range tasks {
		key := t.Section
		if key == "" {
			key = UncategorizedSection
		}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	return order
}

package todolist

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
	strikeRe = regexp.MustCompile(`~~(.*?)~~`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
)

// RenderTitle styles the inline markdown of a task title and hides the
// markup. Bold runs use the accent style; italics, strikethrough and code
// keep the base colour.
func RenderTitle(title string, base, accent lipgloss.Style) string {
	title = boldRe.ReplaceAllStringFunc(title, func(m string) string {
		return accent.Bold(true).Render(boldRe.FindStringSubmatch(m)[1])
	})
	title = italicRe.ReplaceAllStringFunc(title, func(m string) string {
		return base.Italic(true).Render(italicRe.FindStringSubmatch(m)[1])
	})
	title = strikeRe.ReplaceAllStringFunc(title, func(m string) string {
		return base.Strikethrough(true).Render(strikeRe.FindStringSubmatch(m)[1])
	})
	title = codeRe.ReplaceAllStringFunc(title, func(m string) string {
		return base.Reverse(true).Render(codeRe.FindStringSubmatch(m)[1])
	})
	return title
}

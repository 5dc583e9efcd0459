package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/vinayprograms/syllabus/internal/todolist"
)

var (
	cjkRe     = regexp.MustCompile(`[\x{4e00}-\x{9fa5}\x{3000}-\x{303f}\x{ff00}-\x{ffef}]`)
	wordRe    = regexp.MustCompile(`[a-zA-Z]+`)
	numberRe  = regexp.MustCompile(`\d+`)
	jsonPunct = regexp.MustCompile(`[{}\[\]":,]`)
)

type WordCount struct {
	ChineseChars int `json:"chinese_chars"`
	EnglishWords int `json:"english_words"`
	Numbers      int `json:"numbers"`
	TotalChars   int `json:"total_chars"`
}

func (w WordCount) Display() string {
	return fmt.Sprintf("📝 %d 中文字 | %d 英文词 | %d 总字符", w.ChineseChars, w.EnglishWords, w.TotalChars)
}

// CountWords measures the JSON encoding of v. Strings are measured as
// encoded, quotes included, and structural JSON punctuation is left out of
// the total. Totals count UTF-16 code units.
func CountWords(v any) WordCount {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return WordCount{}
	}
	text := strings.TrimSuffix(buf.String(), "\n")

	clean := jsonPunct.ReplaceAllString(text, "")
	return WordCount{
		ChineseChars: len(cjkRe.FindAllStringIndex(text, -1)),
		EnglishWords: len(wordRe.FindAllStringIndex(text, -1)),
		Numbers:      len(numberRe.FindAllStringIndex(text, -1)),
		TotalChars:   len(utf16.Encode([]rune(clean))),
	}
}

const progressWidth = 20

// ProgressBar draws current/total as a bracketed 20-cell bar. A zero total
// draws an empty bar.
func ProgressBar(current, total int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(current) / float64(total) * progressWidth))
	}
	filled = max(0, min(filled, progressWidth))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled) + "]"
}

// Status is the phase a generation run reports.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusGenerating Status = "generating"
	StatusSaving     Status = "saving"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var statusEmoji = map[Status]string{
	StatusStarting:   "🚀",
	StatusGenerating: "⏳",
	StatusSaving:     "💾",
	StatusCompleted:  "✅",
	StatusError:      "❌",
}

var statusText = map[Status]string{
	StatusStarting:   "开始生成",
	StatusGenerating: "生成中",
	StatusSaving:     "保存中",
	StatusCompleted:  "已完成",
	StatusError:      "出错",
}

func (s Status) Emoji() string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return statusEmoji[StatusGenerating]
}

func (s Status) Text() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return string(s)
}

// ProgressLine is the one-line stream form: "✅ [3/10] [██░…] title".
func ProgressLine(current, total int, title string, status Status) string {
	return fmt.Sprintf("%s [%d/%d] %s %s", status.Emoji(), current, total, ProgressBar(current, total), title)
}

func shortTitle(title string) string {
	if r := []rune(title); len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return title
}

const (
	boxTop    = "╔══════════════════════════════════════════════════════════════╗"
	boxBottom = "╚══════════════════════════════════════════════════════════════╝"
)

// ProgressBox renders the framed multi-line progress summary. status and
// words are optional.
func ProgressBox(stats todolist.Stats, title string, status Status, words *WordCount) string {
	var b strings.Builder
	b.WriteString("\n" + boxTop + "\n")
	if status != "" {
		fmt.Fprintf(&b, "║  %s 状态: %s\n", status.Emoji(), status.Text())
	}
	fmt.Fprintf(&b, "║  📊 生成进度: %s %d/%d (%d%%)\n",
		ProgressBar(stats.Completed, stats.Total), stats.Completed, stats.Total, stats.Percent())
	fmt.Fprintf(&b, "║  📋 当前任务: %s\n", shortTitle(title))
	if words != nil {
		fmt.Fprintf(&b, "║  %s\n", words.Display())
	}
	fmt.Fprintf(&b, "║  ⏳ 待处理: %d 个任务\n", stats.Pending)
	b.WriteString(boxBottom)
	return b.String()
}

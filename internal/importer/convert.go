package importer

import (
	"fmt"
	"regexp"
	"strings"
)

// QuestionOption is one answer choice in the backend's question shape.
type QuestionOption struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// Matches "A. xxx", "A、xxx" and "A xxx".
var optionRe = regexp.MustCompile(`^([A-Z])[.、\s]\s*(.+)$`)

// ConvertOptions splits "A. text" strings into key/content pairs. Options
// without a letter prefix are keyed by position.
func ConvertOptions(options []string) []QuestionOption {
	out := make([]QuestionOption, 0, len(options))
	for i, opt := range options {
		if m := optionRe.FindStringSubmatch(opt); m != nil {
			out = append(out, QuestionOption{Key: m[1], Content: m[2]})
			continue
		}
		out = append(out, QuestionOption{Key: string(rune('A' + i)), Content: opt})
	}
	return out
}

// MaterialType maps a material category onto the backend's type code.
func MaterialType(category string) string {
	switch {
	case strings.Contains(category, "名言"), strings.Contains(category, "警句"):
		return "quote"
	case strings.Contains(category, "案例"):
		return "case"
	case strings.Contains(category, "热点"):
		return "hot_topic"
	case strings.Contains(category, "面试"), strings.Contains(category, "金句"):
		return "interview"
	default:
		return "quote"
	}
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

// joinList renders an array as a comma-separated string. Scalars pass
// through as text.
func joinList(v any) string {
	if l, ok := v.([]any); ok {
		parts := make([]string, len(l))
		for i, item := range l {
			parts[i] = str(item)
		}
		return strings.Join(parts, ",")
	}
	return str(v)
}

func orDefault(v any, def any) any {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		if x == "" {
			return def
		}
	case float64:
		if x == 0 {
			return def
		}
	}
	return v
}

// setIf copies key from src when present so absent fields stay absent.
func setIf(dst, src map[string]any, key, as string) {
	if v, ok := src[key]; ok && v != nil {
		dst[as] = v
	}
}

func courseRequest(doc map[string]any) map[string]any {
	req := map[string]any{}
	for _, key := range []string{"chapter_title", "subject", "knowledge_point", "lesson_content", "lesson_sections", "practice_problems"} {
		setIf(req, doc, key, key)
	}
	return req
}

func questionsRequest(doc map[string]any) (map[string]any, int) {
	info := obj(doc["batch_info"])
	questions := list(doc["questions"])
	category := str(info["category"])
	sourceCategory := category
	if sourceCategory == "" {
		sourceCategory = "未分类"
	}

	formatted := make([]map[string]any, 0, len(questions))
	for _, raw := range questions {
		q := obj(raw)
		var opts []string
		for _, o := range list(q["options"]) {
			opts = append(opts, str(o))
		}
		item := map[string]any{
			"options":           ConvertOptions(opts),
			"difficulty":        orDefault(q["difficulty"], 3),
			"question_type":     orDefault(q["question_type"], "single_choice"),
			"source_type":       "original",
			"source":            orDefault(q["source"], "AI生成-"+sourceCategory),
			"tags":              orDefault(q["knowledge_points"], []any{}),
			"category_name":     category,
			"sub_category_name": str(info["topic"]),
		}
		setIf(item, q, "content", "content")
		setIf(item, q, "answer", "answer")
		setIf(item, q, "analysis", "analysis")
		formatted = append(formatted, item)
	}

	return map[string]any{
		"questions":         formatted,
		"category_name":     category,
		"sub_category_name": str(info["topic"]),
	}, len(questions)
}

func materialsRequest(doc map[string]any) (map[string]any, int) {
	info := obj(doc["batch_info"])
	materials := list(doc["materials"])
	category := str(info["category"])
	subject := "申论"
	if strings.Contains(category, "面试") {
		subject = "面试"
	}

	items := make([]map[string]any, 0, len(materials))
	for _, raw := range materials {
		m := obj(raw)
		item := map[string]any{
			"type":         orDefault(m["material_type"], "quote"),
			"sub_type":     str(m["sub_type"]),
			"theme_topics": joinList(m["theme"]),
			"usage":        str(m["usage_scenario"]),
			"tags":         joinList(m["tags"]),
			"subject":      subject,
		}
		setIf(item, m, "title", "title")
		setIf(item, m, "content", "content")
		setIf(item, m, "source", "source")
		items = append(items, item)
	}

	return map[string]any{
		"type":  MaterialType(category),
		"items": items,
	}, len(materials)
}

package content

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	notNameDot  = regexp.MustCompile(`[^a-zA-Z0-9\x{4e00}-\x{9fa5}.]+`)
	notName     = regexp.MustCompile(`[^a-zA-Z0-9\x{4e00}-\x{9fa5}]+`)
	notTitle    = regexp.MustCompile(`[^a-zA-Z0-9\x{4e00}-\x{9fa5}-]`)
	dashes      = regexp.MustCompile(`-+`)
	courseTail  = regexp.MustCompile(`课程$`)
	expressTail = regexp.MustCompile(`与表达$`)
	parenthesis = regexp.MustCompile(`[（(].+[）)]`)
	courseWords = regexp.MustCompile(`精讲|专题|课程`)
	questionBox = regexp.MustCompile(`题库[（(].+[）)]?`)
	materialBox = regexp.MustCompile(`素材[（(].+[）)]?`)
)

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// courseSectionShort turns "1.1 言语理解与表达课程" into "1.1-言语理解".
func courseSectionShort(section string) string {
	if section == "" {
		return ""
	}
	s := courseTail.ReplaceAllString(section, "")
	s = expressTail.ReplaceAllString(s, "")
	s = notNameDot.ReplaceAllString(s, "-")
	return truncate(s, 15)
}

// courseSubsectionShort turns "实词辨析精讲（20课时）" into "实词辨析".
func courseSubsectionShort(subsection string) string {
	if subsection == "" {
		return ""
	}
	s := replaceFirst(parenthesis, subsection, "")
	s = replaceFirst(courseWords, s, "")
	s = notName.ReplaceAllString(s, "-")
	return truncate(s, 10)
}

func titleShort(title string) string {
	if title == "" {
		title = "untitled"
	}
	s := notTitle.ReplaceAllString(title, "-")
	s = dashes.ReplaceAllString(s, "-")
	return truncate(s, 30)
}

func batchSectionShort(section string, box *regexp.Regexp) string {
	if section == "" {
		return ""
	}
	s := replaceFirst(box, section, "")
	s = notNameDot.ReplaceAllString(s, "-")
	return truncate(s, 15)
}

func safePart(s string, n int) string {
	return truncate(notName.ReplaceAllString(s, "-"), n)
}

// joinParts builds "<order>-<parts...>" with empty and lone-dash parts
// dropped and dash runs collapsed.
func joinParts(order int, parts ...string) string {
	kept := []string{fmt.Sprintf("%03d", order)}
	for _, p := range parts {
		if p != "" && p != "-" {
			kept = append(kept, p)
		}
	}
	name := dashes.ReplaceAllString(strings.Join(kept, "-"), "-")
	return strings.Trim(name, "-")
}

// CourseFileName names a saved lesson. suffix keeps names unique.
func CourseFileName(order int, section, subsection, title, suffix string) string {
	base := joinParts(order, courseSectionShort(section), courseSubsectionShort(subsection), titleShort(title))
	return fmt.Sprintf("%s-%s.json", base, suffix)
}

// BatchFileName names a saved question or material batch.
func BatchFileName(kind Kind, order int, section string, info BatchInfo, suffix string) string {
	box := questionBox
	if kind == KindMaterials {
		box = materialBox
	}
	base := joinParts(order, batchSectionShort(section, box), safePart(info.Category, 15), safePart(info.Topic, 20))
	return fmt.Sprintf("%s-batch%d-%s.json", base, info.BatchNumber, suffix)
}

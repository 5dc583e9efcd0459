package todolist

import "strings"

// Subject is the exam subject a task produces content for.
type Subject string

const (
	SubjectXingce  Subject = "xingce"
	SubjectShenlun Subject = "shenlun"
	SubjectMianshi Subject = "mianshi"
	SubjectGongji  Subject = "gongji"
)

var subjectNames = map[Subject]string{
	SubjectXingce:  "行测",
	SubjectShenlun: "申论",
	SubjectMianshi: "面试",
	SubjectGongji:  "公基",
}

// Name is the Chinese display name of the subject.
func (s Subject) Name() string {
	if n, ok := subjectNames[s]; ok {
		return n
	}
	return string(s)
}

// Kind is the type of content a task asks for.
type Kind string

const (
	KindCourse   Kind = "course"
	KindQuestion Kind = "question"
	KindMaterial Kind = "material"
	KindExam     Kind = "exam"
)

type keyword[T any] struct {
	word  string
	value T
}

// Checked in order; the first keyword found wins.
var subjectKeywords = []keyword[Subject]{
	{"言语理解", SubjectXingce},
	{"数量关系", SubjectXingce},
	{"判断推理", SubjectXingce},
	{"资料分析", SubjectXingce},
	{"常识判断", SubjectXingce},
	{"申论", SubjectShenlun},
	{"面试", SubjectMianshi},
	{"公基", SubjectGongji},
	{"公共基础知识", SubjectGongji},
}

var kindKeywords = []keyword[Kind]{
	{"课程", KindCourse},
	{"题库", KindQuestion},
	{"素材", KindMaterial},
	{"试卷", KindExam},
}

// Classify infers subject and kind from the task's headings. Subject also
// looks at the title. Unmatched tasks are xingce courses.
func Classify(t Task) (Subject, Kind) {
	subject := SubjectXingce
	for _, k := range subjectKeywords {
		if strings.Contains(t.Section, k.word) ||
			strings.Contains(t.Subsection, k.word) ||
			strings.Contains(t.Title, k.word) {
			subject = k.value
			break
		}
	}

	kind := KindCourse
	for _, k := range kindKeywords {
		if strings.Contains(t.Section, k.word) || strings.Contains(t.Subsection, k.word) {
			kind = k.value
			break
		}
	}

	return subject, kind
}

func isKind(t Task, kind Kind) bool {
	switch kind {
	case KindCourse:
		return strings.Contains(t.Section, "课程") || strings.Contains(t.Subsection, "课时")
	case KindQuestion:
		return strings.Contains(t.Section, "题库") || strings.Contains(t.Subsection, "题")
	case KindMaterial:
		return strings.Contains(t.Section, "素材") || strings.Contains(t.Subsection, "素材")
	default:
		return false
	}
}

// OrderOf is the 1-based position of the task on line among tasks of the
// same kind, or 0 when no such task exists.
func OrderOf(tasks []Task, line int, kind Kind) int {
	n := 0
	for _, t := range tasks {
		if !isKind(t, kind) {
			continue
		}
		n++
		if t.LineNumber == line {
			return n
		}
	}
	return 0
}

package todolist

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		task        Task
		wantSubject Subject
		wantKind    Kind
	}{
		{"default", Task{Title: "anything"}, SubjectXingce, KindCourse},
		{"shenlun section", Task{Section: "申论课程"}, SubjectShenlun, KindCourse},
		{"mianshi title", Task{Section: "题库", Title: "面试真题"}, SubjectMianshi, KindQuestion},
		{"gongji subsection", Task{Section: "素材库", Subsection: "公共基础知识"}, SubjectGongji, KindMaterial},
		{"xingce first wins", Task{Section: "申论", Subsection: "资料分析"}, SubjectXingce, KindCourse},
		{"exam", Task{Section: "模拟试卷"}, SubjectXingce, KindExam},
		{"course before question", Task{Section: "课程", Subsection: "题库"}, SubjectXingce, KindCourse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, kind := Classify(tt.task)
			if subject != tt.wantSubject || kind != tt.wantKind {
				t.Errorf("Classify() = %s, %s; want %s, %s", subject, kind, tt.wantSubject, tt.wantKind)
			}
		})
	}
}

func TestSubjectName(t *testing.T) {
	if SubjectShenlun.Name() != "申论" {
		t.Errorf("Name() = %q", SubjectShenlun.Name())
	}
	if Subject("other").Name() != "other" {
		t.Error("unknown subjects fall back to their code")
	}
}

func TestOrderOf(t *testing.T) {
	text := `## 行测课程
- [ ] c1
- [ ] c2
## 题库
- [ ] q1
## 申论
#### 第一课时
- [ ] c3
#### 练习题
- [ ] q2
## 素材
- [ ] m1
`
	tasks := Parse(text)
	byTitle := map[string]int{}
	for _, task := range tasks {
		byTitle[task.Title] = task.LineNumber
	}

	tests := []struct {
		title string
		kind  Kind
		want  int
	}{
		{"c1", KindCourse, 1},
		{"c2", KindCourse, 2},
		{"c3", KindCourse, 3},
		{"q1", KindQuestion, 1},
		{"q2", KindQuestion, 2},
		{"m1", KindMaterial, 1},
		{"c1", KindQuestion, 0},
	}
	for _, tt := range tests {
		if got := OrderOf(tasks, byTitle[tt.title], tt.kind); got != tt.want {
			t.Errorf("OrderOf(%s, %s) = %d, want %d", tt.title, tt.kind, got, tt.want)
		}
	}
}

func TestRenderTitleHidesMarkup(t *testing.T) {
	out := RenderTitle("**bold** *it* ~~gone~~ `code`", lipgloss.NewStyle(), lipgloss.NewStyle())
	for _, marker := range []string{"**", "~~", "`"} {
		if strings.Contains(out, marker) {
			t.Errorf("RenderTitle() kept %q: %q", marker, out)
		}
	}
	for _, word := range []string{"bold", "it", "gone", "code"} {
		if !strings.Contains(out, word) {
			t.Errorf("RenderTitle() dropped %q: %q", word, out)
		}
	}
}

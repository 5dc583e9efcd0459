package todolist

import (
	"reflect"
	"testing"
)

const sample = "## Math\n- [ ] add\n- [x] sub\n## Science\n- [ ] physics\n"

func TestParseSample(t *testing.T) {
	got := Parse(sample)
	want := []Task{
		{LineNumber: 1, Title: "add", Section: "Math"},
		{LineNumber: 2, Title: "sub", Completed: true, Section: "Math"},
		{LineNumber: 4, Title: "physics", Section: "Science"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseHeadings(t *testing.T) {
	text := `# Plan
- [ ] before any section
### 课程
#### 课时一
- [ ] lesson
##### 细分
- [ ] detail
## 题库
- [ ] q1
#####No space is not a heading
- [X] upper
`
	tasks := Parse(text)
	if len(tasks) != 5 {
		t.Fatalf("got %d tasks, want 5: %+v", len(tasks), tasks)
	}

	tests := []struct {
		title, section, subsection string
		completed                  bool
	}{
		{"before any section", "", "", false},
		{"lesson", "课程", "课时一", false},
		{"detail", "课程", "细分", false},
		{"q1", "题库", "", false},
		{"upper", "题库", "", true},
	}
	for i, tt := range tests {
		task := tasks[i]
		if task.Title != tt.title || task.Section != tt.section ||
			task.Subsection != tt.subsection || task.Completed != tt.completed {
			t.Errorf("task %d = %+v, want %+v", i, task, tt)
		}
	}
}

func TestParseLineNumbersIncrease(t *testing.T) {
	tasks := Parse("- [ ] a\n\ntext\n- [x] b\n  - [ ] c\n")
	want := []int{0, 3, 4}
	for i, task := range tasks {
		if task.LineNumber != want[i] {
			t.Errorf("task %d line = %d, want %d", i, task.LineNumber, want[i])
		}
	}
}

func TestParseParents(t *testing.T) {
	text := "  - [ ] orphan\n" +
		"- [ ] **Group A**\n" +
		"  - [ ] a1\n" +
		"\t- [x] a2\n" +
		"- [ ] plain top\n" +
		"    - [ ] still A\n" +
		"- [ ] **Group B**\n" +
		"  - [ ] b1\n"
	tasks := Parse(text)

	tests := []struct {
		title  string
		indent int
		parent string
	}{
		{"orphan", 2, ""},
		{"**Group A**", 0, ""},
		{"a1", 2, "Group A"},
		{"a2", 1, "Group A"},
		{"plain top", 0, ""},
		{"still A", 4, "Group A"},
		{"**Group B**", 0, ""},
		{"b1", 2, "Group B"},
	}
	if len(tasks) != len(tests) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(tests))
	}
	for i, tt := range tests {
		if tasks[i].Title != tt.title || tasks[i].Indent != tt.indent || tasks[i].Parent != tt.parent {
			t.Errorf("task %d = %+v, want %+v", i, tasks[i], tt)
		}
	}
	if !tasks[1].IsParent() || tasks[2].IsParent() {
		t.Error("IsParent() should follow the bold delimiter")
	}
	if tasks[1].DisplayTitle() != "Group A" {
		t.Errorf("DisplayTitle() = %q", tasks[1].DisplayTitle())
	}
}

func TestParseIgnoresNonTasks(t *testing.T) {
	text := "- [] missing space\n-[ ] no space\n* [ ] star\n- [ ]\n- [y] other\nplain\n"
	if tasks := Parse(text); len(tasks) != 0 {
		t.Errorf("Parse() = %+v, want no tasks", tasks)
	}
}

func TestParseCRLF(t *testing.T) {
	tasks := Parse("## Math\r\n- [ ] add\r\n")
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks", len(tasks))
	}
	if tasks[0].Title != "add" || tasks[0].Section != "Math" {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestParseUnicodeIndent(t *testing.T) {
	text := "## 课程\n" +
		"- [ ] **第一组**\n" +
		"\u3000\u3000- [ ] 子任务\n" +
		"\u00a0- [x]\u3000nbsp child\n"
	tasks := Parse(text)

	tests := []struct {
		title     string
		indent    int
		parent    string
		completed bool
	}{
		{"**第一组**", 0, "", false},
		{"子任务", 2, "第一组", false},
		{"nbsp child", 1, "第一组", true},
	}
	if len(tasks) != len(tests) {
		t.Fatalf("got %d tasks, want %d: %+v", len(tasks), len(tests), tasks)
	}
	for i, tt := range tests {
		got := tasks[i]
		if got.Title != tt.title || got.Indent != tt.indent || got.Parent != tt.parent || got.Completed != tt.completed {
			t.Errorf("task %d = %+v, want %+v", i, got, tt)
		}
		if got.Section != "课程" {
			t.Errorf("task %d section = %q", i, got.Section)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	if tasks := Parse(""); len(tasks) != 0 {
		t.Errorf("Parse(\"\") = %+v", tasks)
	}
}

func TestFilterSection(t *testing.T) {
	tasks := Parse(sample)
	if got := FilterSection(tasks, ""); len(got) != 3 {
		t.Errorf("empty filter kept %d, want 3", len(got))
	}
	if got := FilterSection(tasks, "Sci"); len(got) != 1 || got[0].Title != "physics" {
		t.Errorf("FilterSection(Sci) = %+v", got)
	}
	if got := FilterSection(tasks, "math"); len(got) != 0 {
		t.Errorf("filter should be case-sensitive, got %+v", got)
	}
}

func TestStripBold(t *testing.T) {
	tests := map[string]string{
		"**Group**":      "Group",
		" ** spaced ** ": "spaced",
		"a **b** c":      "a b c",
		"no bold":        "no bold",
	}
	for in, want := range tests {
		if got := StripBold(in); got != want {
			t.Errorf("StripBold(%q) = %q, want %q", in, got, want)
		}
	}
}

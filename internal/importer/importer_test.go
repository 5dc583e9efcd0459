package importer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/vinayprograms/syllabus/internal/content"
)

type captured struct {
	path string
	auth string
	body map[string]any
}

type backend struct {
	mu       sync.Mutex
	requests []captured
	calls    atomic.Int32
	status   int
	reply    string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls.Add(1)
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	json.Unmarshal(data, &body)

	b.mu.Lock()
	b.requests = append(b.requests, captured{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
	b.mu.Unlock()

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	reply := b.reply
	if reply == "" {
		reply = `{"code":0,"data":{}}`
	}
	io.WriteString(w, reply)
}

func (b *backend) byPath(path string) *captured {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		if strings.HasSuffix(b.requests[i].path, path) {
			return &b.requests[i]
		}
	}
	return nil
}

func seed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	s := content.NewStore(dir)
	if _, err := s.SaveCourse(content.Course{
		ChapterTitle:     "第一课",
		Subject:          "xingce",
		KnowledgePoint:   "kp",
		LessonContent:    map[string]any{"a": "b"},
		LessonSections:   []any{},
		PracticeProblems: []any{},
	}, nil, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveQuestions(content.QuestionBatch{
		BatchInfo: content.BatchInfo{Category: "言语理解", Topic: "逻辑填空", BatchNumber: 1, Count: 2},
		Questions: []content.Item{
			{"content": "q1", "options": []any{"A. 甲", "B、乙", "丙"}, "answer": "A", "knowledge_points": []any{"kp"}},
			{"content": "q2", "difficulty": 5, "source": "真题"},
		},
	}, nil, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveMaterials(content.MaterialBatch{
		BatchInfo: content.BatchInfo{Category: "面试金句", Topic: "担当", BatchNumber: 1, Count: 1},
		Materials: []content.Item{{"title": "t", "content": "c", "theme": []any{"责任", "担当"}, "tags": "x"}},
	}, nil, 1); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newImporter(t *testing.T, url string) *Importer {
	return New(Options{BaseURL: url + "/api/v1/", Token: "tok", Workers: 2, RatePerSecond: 100},
		WithLogger(zaptest.NewLogger(t)))
}

func TestImportDryRun(t *testing.T) {
	b := &backend{}
	srv := httptest.NewServer(b)
	defer srv.Close()
	dir := seed(t)
	im := newImporter(t, srv.URL)

	files, err := im.Pending(dir)
	if err != nil {
		t.Fatal(err)
	}
	report, err := im.Import(context.Background(), dir, files, true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if b.calls.Load() != 0 {
		t.Errorf("dry run made %d HTTP calls", b.calls.Load())
	}
	if report.Succeeded != 3 || report.Records != 4 {
		t.Errorf("report = %+v, want 3 files / 4 records", report)
	}
	if _, err := os.Stat(filepath.Join(dir, ledgerName)); !os.IsNotExist(err) {
		t.Error("dry run must not write the ledger")
	}
}

func TestImportPostsConvertedShapes(t *testing.T) {
	b := &backend{}
	srv := httptest.NewServer(b)
	defer srv.Close()
	dir := seed(t)
	im := newImporter(t, srv.URL)

	files, _ := im.Pending(dir)
	report, err := im.Import(context.Background(), dir, files, false)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Succeeded != 3 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}

	course := b.byPath(CoursePath)
	if course == nil || course.auth != "Bearer tok" || course.body["chapter_title"] != "第一课" {
		t.Errorf("course request = %+v", course)
	}
	if _, ok := course.body["_metadata"]; ok {
		t.Error("metadata must not be sent")
	}

	q := b.byPath(QuestionsPath)
	if q == nil {
		t.Fatal("no questions request")
	}
	if q.body["category_name"] != "言语理解" || q.body["sub_category_name"] != "逻辑填空" {
		t.Errorf("questions body = %v", q.body)
	}
	qs := q.body["questions"].([]any)
	first := qs[0].(map[string]any)
	wantOpts := []any{
		map[string]any{"key": "A", "content": "甲"},
		map[string]any{"key": "B", "content": "乙"},
		map[string]any{"key": "C", "content": "丙"},
	}
	if !reflect.DeepEqual(first["options"], wantOpts) {
		t.Errorf("options = %v", first["options"])
	}
	if first["difficulty"] != float64(3) || first["question_type"] != "single_choice" ||
		first["source"] != "AI生成-言语理解" || first["source_type"] != "original" {
		t.Errorf("question defaults = %v", first)
	}
	second := qs[1].(map[string]any)
	if second["difficulty"] != float64(5) || second["source"] != "真题" {
		t.Errorf("question overrides = %v", second)
	}

	m := b.byPath(MaterialsPath)
	if m == nil || m.body["type"] != "interview" {
		t.Fatalf("materials request = %+v", m)
	}
	item := m.body["items"].([]any)[0].(map[string]any)
	if item["theme_topics"] != "责任,担当" || item["tags"] != "x" || item["subject"] != "面试" || item["type"] != "quote" {
		t.Errorf("material item = %v", item)
	}

	pending, _ := im.Pending(dir)
	if len(pending) != 0 {
		t.Errorf("imported files still pending: %v", pending)
	}
}

func TestImportRecordsFailures(t *testing.T) {
	b := &backend{status: http.StatusBadRequest, reply: `{"message":"bad category"}`}
	srv := httptest.NewServer(b)
	defer srv.Close()
	dir := seed(t)
	im := newImporter(t, srv.URL)

	files, _ := im.Pending(dir)
	report, err := im.Import(context.Background(), dir, files, false)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Failed != 3 || report.Succeeded != 0 {
		t.Fatalf("report = %+v", report)
	}
	if !strings.Contains(report.Results[0].Error, "API error 400: bad category") {
		t.Errorf("error = %q", report.Results[0].Error)
	}
	if pending, _ := im.Pending(dir); len(pending) != 3 {
		t.Errorf("failed files should stay pending, got %d", len(pending))
	}
}

func TestImportUsesReplyCounts(t *testing.T) {
	b := &backend{reply: `{"data":{"count":7,"success_count":9}}`}
	srv := httptest.NewServer(b)
	defer srv.Close()
	dir := seed(t)
	im := newImporter(t, srv.URL)

	files, _ := im.Pending(dir)
	report, _ := im.Import(context.Background(), dir, files, false)
	if report.Records != 1+7+9 {
		t.Errorf("Records = %d, want 17", report.Records)
	}
}

func TestImportRejectsMalformedFile(t *testing.T) {
	b := &backend{}
	srv := httptest.NewServer(b)
	defer srv.Close()
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "questions"), 0755)
	os.WriteFile(filepath.Join(dir, "questions", "bad.json"), []byte(`{"batch_info":{"category":"x","topic":"y"},"questions":[]}`), 0644)
	os.WriteFile(filepath.Join(dir, "questions", "broken.json"), []byte(`{`), 0644)
	im := newImporter(t, srv.URL)

	files, _ := im.Pending(dir)
	report, err := im.Import(context.Background(), dir, files, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 2 || b.calls.Load() != 0 {
		t.Errorf("report = %+v, calls = %d", report, b.calls.Load())
	}
	if !strings.Contains(report.Results[0].Error, "invalid questions file") {
		t.Errorf("error = %q", report.Results[0].Error)
	}
}

func TestFileAt(t *testing.T) {
	dir := seed(t)
	files, _ := content.List(dir)

	f, err := FileAt(files[0].Path)
	if err != nil || f.Kind != content.KindCourses {
		t.Errorf("FileAt(course) = %+v, %v", f, err)
	}

	loose := filepath.Join(t.TempDir(), "loose.json")
	os.WriteFile(loose, []byte(`{"materials":[{"content":"c"}],"batch_info":{"category":"案例","topic":"t"}}`), 0644)
	f, err = FileAt(loose)
	if err != nil || f.Kind != "" {
		t.Fatalf("FileAt(loose) = %+v, %v", f, err)
	}
	report, _ := New(Options{}).Import(context.Background(), t.TempDir(), []content.File{f}, true)
	if report.Results[0].Kind != content.KindMaterials || !report.Results[0].Success {
		t.Errorf("detected = %+v", report.Results[0])
	}

	if _, err := FileAt(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("FileAt(missing) should fail")
	}
}

func TestConvertOptions(t *testing.T) {
	got := ConvertOptions([]string{"A. one", "B、two", "C three", "plain", "d. lower"})
	want := []QuestionOption{{"A", "one"}, {"B", "two"}, {"C", "three"}, {"D", "plain"}, {"E", "d. lower"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertOptions() = %v, want %v", got, want)
	}
}

func TestMaterialType(t *testing.T) {
	tests := map[string]string{
		"名言警句": "quote",
		"典型案例": "case",
		"时政热点": "hot_topic",
		"面试金句": "interview",
		"":     "quote",
		"其他":   "quote",
	}
	for in, want := range tests {
		if got := MaterialType(in); got != want {
			t.Errorf("MaterialType(%q) = %q, want %q", in, got, want)
		}
	}
}

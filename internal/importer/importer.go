// Package importer pushes generated content files to the backend's admin
// import endpoints.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/parallel"
)

const (
	CoursePath    = "/admin/content/import/course-lesson"
	QuestionsPath = "/admin/content/import/questions"
	MaterialsPath = "/admin/materials/batch/import"
)

type Options struct {
	BaseURL       string
	Token         string
	Workers       int
	RatePerSecond float64
	Timeout       time.Duration
}

type Importer struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Importer)

func WithHTTPClient(c *http.Client) Option {
	return func(im *Importer) { im.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

func New(opts Options, options ...Option) *Importer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	im := &Importer{
		opts:    opts,
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(limit, 1),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, o := range options {
		o(im)
	}
	return im
}

// Result is the outcome for one file.
type Result struct {
	File    string       `json:"file"`
	Kind    content.Kind `json:"kind"`
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Error   string       `json:"error,omitempty"`
}

type Report struct {
	DryRun    bool     `json:"dry_run"`
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Records   int      `json:"records"`
}

// Pending lists generated files under dir that have not been imported yet.
func (im *Importer) Pending(dir string) ([]content.File, error) {
	files, err := content.List(dir)
	if err != nil {
		return nil, err
	}
	done := loadLedger(dir)
	var pending []content.File
	for _, f := range files {
		if !done.has(f.Rel()) {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// FileAt describes an arbitrary file for import. The kind comes from the
// parent directory name when it is one of the content kinds; otherwise it is
// detected from the file's fields at import time.
func FileAt(path string) (content.File, error) {
	if _, err := os.Stat(path); err != nil {
		return content.File{}, err
	}
	f := content.File{Name: filepath.Base(path), Path: path}
	parent := content.Kind(filepath.Base(filepath.Dir(path)))
	for _, k := range content.Kinds {
		if parent == k {
			f.Kind = k
		}
	}
	return f, nil
}

func detectKind(doc map[string]any) content.Kind {
	switch {
	case doc["lesson_content"] != nil:
		return content.KindCourses
	case doc["questions"] != nil:
		return content.KindQuestions
	case doc["materials"] != nil:
		return content.KindMaterials
	default:
		return content.KindCourses
	}
}

// Import sends files to the backend. A dry run validates and counts
// without any network traffic. Failures are recorded per file; the error
// return is reserved for problems with the import ledger in dir.
func (im *Importer) Import(ctx context.Context, dir string, files []content.File, dryRun bool) (*Report, error) {
	results := parallel.Map(ctx, files, im.opts.Workers, func(ctx context.Context, f content.File) (Result, error) {
		return im.importFile(ctx, f, dryRun), nil
	})

	report := &Report{DryRun: dryRun}
	done := loadLedger(dir)
	for i, r := range results {
		res := r.Value
		if r.Err != nil {
			res = Result{File: files[i].Rel(), Kind: files[i].Kind, Error: r.Err.Error()}
		}
		report.Results = append(report.Results, res)
		if !res.Success {
			report.Failed++
			continue
		}
		report.Succeeded++
		report.Records += res.Count
		if !dryRun && !done.has(res.File) {
			done.Files = append(done.Files, res.File)
		}
	}

	if !dryRun && report.Succeeded > 0 {
		if err := done.save(dir, im.now()); err != nil {
			return report, fmt.Errorf("save import ledger: %w", err)
		}
	}
	return report, nil
}

func (im *Importer) importFile(ctx context.Context, f content.File, dryRun bool) Result {
	res := Result{File: f.Rel(), Kind: f.Kind}
	fail := func(err error) Result {
		res.Error = err.Error()
		im.logger.Warn("import failed", zap.String("file", res.File), zap.Error(err))
		return res
	}

	doc, err := content.Load(f)
	if err != nil {
		return fail(err)
	}
	if res.Kind == "" {
		res.Kind = detectKind(doc)
		f.Kind = res.Kind
		res.File = f.Rel()
	}
	if err := checkShape(res.Kind, doc); err != nil {
		return fail(err)
	}

	var (
		endpoint string
		body     map[string]any
		count    int
		countKey string
	)
	switch res.Kind {
	case content.KindQuestions:
		endpoint, countKey = QuestionsPath, "count"
		body, count = questionsRequest(doc)
	case content.KindMaterials:
		endpoint, countKey = MaterialsPath, "success_count"
		body, count = materialsRequest(doc)
	default:
		endpoint = CoursePath
		body, count = courseRequest(doc), 1
	}

	if dryRun {
		res.Success, res.Count = true, count
		return res
	}

	reply, err := im.post(ctx, endpoint, body)
	if err != nil {
		return fail(err)
	}
	if countKey != "" {
		if n, ok := obj(reply["data"])[countKey].(float64); ok && n > 0 {
			count = int(n)
		}
	}

	im.logger.Info("imported", zap.String("file", res.File), zap.Int("records", count))
	res.Success, res.Count = true, count
	return res
}

func (im *Importer) post(ctx context.Context, endpoint string, body any) (map[string]any, error) {
	if err := im.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, im.opts.Timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, im.opts.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if im.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+im.opts.Token)
	}

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var reply map[string]any
	if err := json.Unmarshal(text, &reply); err != nil || reply == nil {
		reply = map[string]any{"message": string(text)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := str(reply["message"])
		if msg == "" {
			msg = string(text)
		}
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, msg)
	}
	return reply, nil
}

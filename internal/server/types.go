package server

import (
	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/importer"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

type TaskInfo struct {
	LineNumber int              `json:"line_number" jsonschema:"0-based line of the task in the checklist"`
	Title      string           `json:"title" jsonschema:"task title as written"`
	Section    string           `json:"section,omitempty" jsonschema:"enclosing level 2-3 heading"`
	Subsection string           `json:"subsection,omitempty" jsonschema:"enclosing level 4-5 heading"`
	Parent     string           `json:"parent,omitempty" jsonschema:"title of the bold parent task for indented tasks"`
	Subject    todolist.Subject `json:"subject,omitempty" jsonschema:"inferred subject: xingce, shenlun, mianshi or gongji"`
	Type       todolist.Kind    `json:"type,omitempty" jsonschema:"inferred content type: course, question, material or exam"`
}

type Progress struct {
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Pending     int    `json:"pending"`
	Percent     int    `json:"percent"`
	ProgressBar string `json:"progress_bar,omitempty"`
}

type WordCountInfo struct {
	ChineseChars int    `json:"chinese_chars"`
	EnglishWords int    `json:"english_words"`
	TotalChars   int    `json:"total_chars"`
	Display      string `json:"display"`
}

type NoArgs struct{}

type ConfigInfo struct {
	ProjectRoot        string `json:"project_root"`
	TodolistFile       string `json:"todolist_file"`
	TodolistFullPath   string `json:"todolist_full_path"`
	OutputDir          string `json:"output_dir"`
	OutputFullPath     string `json:"output_full_path"`
	APIBaseURL         string `json:"api_base_url"`
	WeekStart          string `json:"week_start"`
	AutoCommit         bool   `json:"auto_commit"`
	MaxContinuousTasks int    `json:"max_continuous_tasks"`
}

type GetConfigResult struct {
	Success bool       `json:"success"`
	Config  ConfigInfo `json:"config"`
	Hint    string     `json:"hint"`
}

type SetTodolistFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"checklist path, absolute or relative to the project root"`
}

type SetTodolistFileResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NewFile  string `json:"new_file"`
	FullPath string `json:"full_path"`
}

type CurrentTaskResult struct {
	Success    bool      `json:"success"`
	Completed  bool      `json:"completed,omitempty" jsonschema:"true when no pending task is left"`
	Message    string    `json:"message,omitempty"`
	Task       *TaskInfo `json:"task,omitempty"`
	PromptHint string    `json:"prompt_hint,omitempty"`
}

type MarkCompleteArgs struct {
	LineNumber int `json:"line_number" jsonschema:"0-based line number of the task"`
}

type MarkCompleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SaveCourseArgs struct {
	TaskLineNumber *int           `json:"task_line_number,omitempty" jsonschema:"line of the task this content fulfils; marked complete after saving"`
	Content        content.Course `json:"content" jsonschema:"the lesson to save"`
}

type SaveQuestionBatchArgs struct {
	TaskLineNumber *int              `json:"task_line_number,omitempty" jsonschema:"line of the task this batch fulfils; marked complete after saving"`
	BatchInfo      content.BatchInfo `json:"batch_info"`
	Questions      []content.Item    `json:"questions" jsonschema:"generated questions"`
}

type SaveMaterialBatchArgs struct {
	TaskLineNumber *int              `json:"task_line_number,omitempty" jsonschema:"line of the task this batch fulfils; marked complete after saving"`
	BatchInfo      content.BatchInfo `json:"batch_info"`
	Materials      []content.Item    `json:"materials" jsonschema:"generated materials"`
}

type SaveResult struct {
	Success            bool          `json:"success"`
	Message            string        `json:"message"`
	FilePath           string        `json:"filepath"`
	TaskMarkedComplete *int          `json:"task_marked_complete"`
	WordCount          WordCountInfo `json:"word_count"`
	StreamProgress     string        `json:"stream_progress"`
	DetailedProgress   string        `json:"detailed_progress"`
	Progress           Progress      `json:"progress"`
	ContinuousMode     bool          `json:"continuous_mode"`
	NextTask           *TaskInfo     `json:"next_task"`
	ContinueHint       string        `json:"continue_hint,omitempty"`
}

type ProgressStatusResult struct {
	Success    bool                             `json:"success"`
	Progress   Progress                         `json:"progress"`
	BySection  map[string]todolist.SectionStats `json:"by_section"`
	SourceFile string                           `json:"source_file"`
}

type ListPendingArgs struct {
	Limit         *int   `json:"limit,omitempty" jsonschema:"maximum number of tasks to return, default 10"`
	SectionFilter string `json:"section_filter,omitempty" jsonschema:"only tasks whose section contains this text"`
}

type ListPendingResult struct {
	Success      bool       `json:"success"`
	TotalPending int        `json:"total_pending"`
	Showing      int        `json:"showing"`
	Tasks        []TaskInfo `json:"tasks"`
}

type ImportArgs struct {
	DryRun bool `json:"dry_run,omitempty" jsonschema:"validate and list files without sending them"`
}

type ImportResult struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	DryRun       bool              `json:"dry_run"`
	PendingFiles []string          `json:"pending_files"`
	PendingCount int               `json:"pending_count"`
	APIBase      string            `json:"api_base,omitempty"`
	Results      []importer.Result `json:"results,omitempty"`
	Succeeded    int               `json:"succeeded"`
	Failed       int               `json:"failed"`
	Records      int               `json:"records"`
}

type BatchTasksArgs struct {
	Count         *int   `json:"count,omitempty" jsonschema:"number of tasks to return, default 5, at most 20"`
	SectionFilter string `json:"section_filter,omitempty" jsonschema:"only tasks whose section contains this text"`
}

type BatchTasksResult struct {
	Success            bool       `json:"success"`
	BatchCount         int        `json:"batch_count"`
	TotalPending       int        `json:"total_pending"`
	Tasks              []TaskInfo `json:"tasks"`
	Progress           Progress   `json:"progress"`
	StreamHint         string     `json:"stream_hint"`
	ContinuousModeHint string     `json:"continuous_mode_hint"`
}

type ContinuousModeArgs struct {
	Enabled  bool `json:"enabled" jsonschema:"turn continuous generation on or off"`
	MaxTasks int  `json:"max_tasks,omitempty" jsonschema:"tasks to generate before stopping, default 10"`
}

type ContinuousModeResult struct {
	Success        bool      `json:"success"`
	ContinuousMode bool      `json:"continuous_mode"`
	MaxTasks       int       `json:"max_tasks"`
	Message        string    `json:"message"`
	Progress       Progress  `json:"progress"`
	FirstTask      *TaskInfo `json:"first_task,omitempty"`
	StartHint      string    `json:"start_hint,omitempty"`
}

type GenerationStatus struct {
	ContinuousMode     bool `json:"continuous_mode"`
	MaxContinuousTasks int  `json:"max_continuous_tasks"`
	SavedThisSession   int  `json:"saved_this_session"`
}

type GenerationStatusResult struct {
	Success       bool             `json:"success"`
	Status        GenerationStatus `json:"status"`
	Progress      Progress         `json:"progress"`
	NextTask      *TaskInfo        `json:"next_task"`
	SourceFile    string           `json:"source_file"`
	StreamDisplay string           `json:"stream_display"`
}

type ReportProgressArgs struct {
	TaskTitle      string `json:"task_title" jsonschema:"title of the task being generated"`
	CurrentContent string `json:"current_content,omitempty" jsonschema:"text generated so far, used for word counts"`
	Status         string `json:"status,omitempty" jsonschema:"one of starting, generating, saving, completed; default generating"`
}

type ReportProgressResult struct {
	Success     bool           `json:"success"`
	Status      string         `json:"status"`
	TaskTitle   string         `json:"task_title"`
	WordCount   *WordCountInfo `json:"word_count"`
	Progress    Progress       `json:"progress"`
	LiveDisplay string         `json:"live_display"`
	StreamLine  string         `json:"stream_line"`
}

type MonthGridArgs struct {
	Year      int    `json:"year" jsonschema:"four-digit year"`
	Month     int    `json:"month" jsonschema:"0-based month, 0 = January"`
	WeekStart string `json:"week_start,omitempty" jsonschema:"sunday or monday; defaults to the configured week start"`
}

type GridCell struct {
	Date    string `json:"date" jsonschema:"YYYY-MM-DD"`
	InMonth bool   `json:"in_month" jsonschema:"false for leading and trailing filler days"`
}

type MonthGridResult struct {
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Weekdays []string   `json:"weekdays" jsonschema:"column headers in display order"`
	Cells    []GridCell `json:"cells" jsonschema:"42 cells in row-major order"`
}

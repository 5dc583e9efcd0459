// Package server exposes the checklist, content store and importer as MCP
// tools for an assistant that generates course content task by task.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/config"
	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/importer"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

const (
	Name    = "content-generator"
	Version = "2.0.0"
)

// MCPServer wraps the MCP server with content generation operations.
type MCPServer struct {
	config   *config.Config
	tracker  *todolist.Tracker
	store    *content.Store
	importer *importer.Importer
	session  *Session
	logger   *zap.Logger
	server   *mcp.Server
}

// NewMCPServer wires the tools to their backing components. The tracker
// must already point at the configured checklist.
func NewMCPServer(cfg *config.Config, tracker *todolist.Tracker, store *content.Store, imp *importer.Importer, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MCPServer{
		config:   cfg,
		tracker:  tracker,
		store:    store,
		importer: imp,
		session:  NewSession(cfg.TodolistFile, cfg.MaxContinuousTasks),
		logger:   logger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: Version,
	}, nil)

	s.registerTools()
	return s
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("mcp server running on stdio",
		zap.String("todolist", s.tracker.Path()),
		zap.String("output", s.store.Dir()))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_config",
		Description: "Show the active configuration, including which checklist file is being read and where content is saved.",
	}, s.getConfig)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_todolist_file",
		Description: "Switch to another checklist file for this session. Accepts an absolute path or one relative to the project root.",
	}, s.setTodolistFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_current_task",
		Description: "PREFERRED starting point: get the first unchecked task with its section context, inferred subject and content type, and a prompt hint.",
	}, s.getCurrentTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_task_complete",
		Description: "Check off the task on the given 0-based line (rewrites '- [ ]' to '- [x]'). Returns success=false when the line holds no unchecked task.",
	}, s.markTaskComplete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_course_content",
		Description: "Save a generated lesson as JSON. When task_line_number is given the task is checked off afterwards. In continuous mode the next task is returned.",
	}, s.saveCourseContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_question_batch",
		Description: "Save a generated batch of questions as JSON. When task_line_number is given the task is checked off afterwards.",
	}, s.saveQuestionBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_material_batch",
		Description: "Save a generated batch of materials (quotes, cases, hot topics) as JSON. When task_line_number is given the task is checked off afterwards.",
	}, s.saveMaterialBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_progress_status",
		Description: "Completion statistics for the checklist, overall and per section.",
	}, s.getProgressStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pending_tasks",
		Description: "List unchecked tasks in document order, optionally filtered by section name. Default limit is 10.",
	}, s.listPendingTasks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_to_database",
		Description: "Send generated files that have not been imported yet to the backend. Use dry_run to validate and list them without sending.",
	}, s.importToDatabase)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_batch_tasks",
		Description: "Get several pending tasks at once, with inferred subject and type, for batch or continuous generation. Default 5, at most 20.",
	}, s.getBatchTasks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_continuous_mode",
		Description: "Turn continuous generation on or off. While on, every save returns the next task until max_tasks saves have been made.",
	}, s.setContinuousMode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_generation_status",
		Description: "Show continuous mode settings, overall progress and the next task.",
	}, s.getGenerationStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "report_generation_progress",
		Description: "Report live progress while generating. Returns a formatted progress display with word counts of the content so far.",
	}, s.reportGenerationProgress)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_month_grid",
		Description: "Build the 6x7 calendar grid for a month (0-based) including filler days from the neighbouring months.",
	}, s.getMonthGrid)
}

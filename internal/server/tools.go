package server

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/calendar"
	"github.com/vinayprograms/syllabus/internal/config"
	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/errs"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

const (
	defaultListLimit  = 10
	defaultBatchCount = 5
	maxBatchCount     = 20

	allDoneMessage = "🎉 所有任务已完成！"
)

func toInfo(t todolist.Task) TaskInfo {
	subject, kind := todolist.Classify(t)
	return TaskInfo{
		LineNumber: t.LineNumber,
		Title:      t.Title,
		Section:    t.Section,
		Subsection: t.Subsection,
		Parent:     t.Parent,
		Subject:    subject,
		Type:       kind,
	}
}

func toInfos(tasks []todolist.Task) []TaskInfo {
	infos := make([]TaskInfo, len(tasks))
	for i, t := range tasks {
		infos[i] = toInfo(t)
	}
	return infos
}

func progressOf(stats todolist.Stats) Progress {
	return Progress{
		Total:       stats.Total,
		Completed:   stats.Completed,
		Pending:     stats.Pending,
		Percent:     stats.Percent(),
		ProgressBar: content.ProgressBar(stats.Completed, stats.Total),
	}
}

func wordInfo(w content.WordCount) WordCountInfo {
	return WordCountInfo{
		ChineseChars: w.ChineseChars,
		EnglishWords: w.EnglishWords,
		TotalChars:   w.TotalChars,
		Display:      w.Display(),
	}
}

func promptHint(t TaskInfo) string {
	switch t.Type {
	case todolist.KindCourse:
		return "请生成课程内容：" + t.Title
	case todolist.KindQuestion:
		return "请生成题目：" + t.Title
	case todolist.KindExam:
		return "请生成试卷：" + t.Title
	default:
		return "请生成素材：" + t.Title
	}
}

func (s *MCPServer) getConfig(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, GetConfigResult, error) {
	_, maxTasks := s.session.Continuous()
	return nil, GetConfigResult{
		Success: true,
		Config: ConfigInfo{
			ProjectRoot:        s.config.ProjectRoot,
			TodolistFile:       s.session.TodolistFile(),
			TodolistFullPath:   s.tracker.Path(),
			OutputDir:          s.config.OutputDir,
			OutputFullPath:     s.store.Dir(),
			APIBaseURL:         s.config.APIBaseURL,
			WeekStart:          s.config.WeekStart,
			AutoCommit:         s.config.Git.AutoCommit,
			MaxContinuousTasks: maxTasks,
		},
		Hint: "使用 set_todolist_file 可以动态更改任务文件",
	}, nil
}

func (s *MCPServer) setTodolistFile(ctx context.Context, req *mcp.CallToolRequest, args SetTodolistFileArgs) (*mcp.CallToolResult, SetTodolistFileResult, error) {
	if err := validation.ValidateStruct(&args,
		validation.Field(&args.FilePath, validation.Required),
	); err != nil {
		return nil, SetTodolistFileResult{}, errs.InvalidWrap(err, errs.CodeInvalidPayload, "file_path is required")
	}

	full := s.config.Resolve(args.FilePath)
	if err := s.tracker.SetPath(full); err != nil {
		return nil, SetTodolistFileResult{}, err
	}
	s.session.SetTodolistFile(args.FilePath)

	return nil, SetTodolistFileResult{
		Success:  true,
		Message:  "任务文件已切换",
		NewFile:  args.FilePath,
		FullPath: full,
	}, nil
}

func (s *MCPServer) getCurrentTask(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, CurrentTaskResult, error) {
	task, err := s.tracker.NextPending()
	if err != nil {
		return nil, CurrentTaskResult{}, err
	}
	if task == nil {
		return nil, CurrentTaskResult{Success: true, Completed: true, Message: allDoneMessage}, nil
	}

	info := toInfo(*task)
	return nil, CurrentTaskResult{
		Success:    true,
		Task:       &info,
		PromptHint: promptHint(info),
	}, nil
}

func (s *MCPServer) markTaskComplete(ctx context.Context, req *mcp.CallToolRequest, args MarkCompleteArgs) (*mcp.CallToolResult, MarkCompleteResult, error) {
	ok, err := s.tracker.MarkComplete(args.LineNumber)
	if err != nil {
		return nil, MarkCompleteResult{}, err
	}
	if !ok {
		return nil, MarkCompleteResult{
			Success: false,
			Message: fmt.Sprintf("无法标记任务完成（行 %d）：该行没有未完成的任务", args.LineNumber+1),
		}, nil
	}
	return nil, MarkCompleteResult{
		Success: true,
		Message: fmt.Sprintf("任务已标记为完成（行 %d）", args.LineNumber+1),
	}, nil
}

// placement finds the task a save refers to and its position among tasks
// of the same kind.
func (s *MCPServer) placement(line *int, kind todolist.Kind) (*todolist.Task, int, error) {
	if line == nil {
		return nil, 0, nil
	}
	if *line < 0 {
		return nil, 0, errs.Invalid(errs.CodeInvalidLine, "task_line_number must not be negative, got %d", *line)
	}
	tasks, err := s.tracker.Load()
	if err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		if tasks[i].LineNumber == *line {
			return &tasks[i], todolist.OrderOf(tasks, *line, kind), nil
		}
	}
	return nil, 0, nil
}

// finishSave checks off the task, then builds the progress part of a save
// reply, including the next task in continuous mode.
func (s *MCPServer) finishSave(line *int, saved *content.Saved, title, message string) (SaveResult, error) {
	var marked *int
	if line != nil {
		ok, err := s.tracker.MarkComplete(*line)
		if err != nil {
			return SaveResult{}, err
		}
		if ok {
			marked = line
		}
	}

	stats, err := s.tracker.Stats()
	if err != nil {
		return SaveResult{}, err
	}

	result := SaveResult{
		Success:            true,
		Message:            message,
		FilePath:           saved.Path,
		TaskMarkedComplete: marked,
		WordCount:          wordInfo(saved.Words),
		StreamProgress:     content.ProgressLine(stats.Completed, stats.Total, title, content.StatusCompleted),
		DetailedProgress:   content.ProgressBox(stats, title, "", &saved.Words),
		Progress:           progressOf(stats),
	}

	continueRun, count := s.session.RecordSave()
	continuous, maxTasks := s.session.Continuous()
	result.ContinuousMode = continuous
	if !continuous {
		return result, nil
	}
	if !continueRun {
		result.ContinueHint = fmt.Sprintf("⏸️ 已连续生成 %d 个任务，达到上限 %d", count, maxTasks)
		return result, nil
	}

	next, err := s.tracker.NextPending()
	if err != nil {
		return SaveResult{}, err
	}
	if next == nil {
		result.ContinueHint = allDoneMessage
		return result, nil
	}
	info := toInfo(*next)
	result.NextTask = &info
	result.ContinueHint = "请继续生成: " + next.Title
	return result, nil
}

func (s *MCPServer) saveCourseContent(ctx context.Context, req *mcp.CallToolRequest, args SaveCourseArgs) (*mcp.CallToolResult, SaveResult, error) {
	task, order, err := s.placement(args.TaskLineNumber, todolist.KindCourse)
	if err != nil {
		return nil, SaveResult{}, err
	}
	saved, err := s.store.SaveCourse(args.Content, task, order)
	if err != nil {
		return nil, SaveResult{}, err
	}

	result, err := s.finishSave(args.TaskLineNumber, saved, args.Content.ChapterTitle, "课程内容已保存: "+saved.Name)
	return nil, result, err
}

func (s *MCPServer) saveQuestionBatch(ctx context.Context, req *mcp.CallToolRequest, args SaveQuestionBatchArgs) (*mcp.CallToolResult, SaveResult, error) {
	task, order, err := s.placement(args.TaskLineNumber, todolist.KindQuestion)
	if err != nil {
		return nil, SaveResult{}, err
	}
	batch := content.QuestionBatch{BatchInfo: args.BatchInfo, Questions: args.Questions}
	saved, err := s.store.SaveQuestions(batch, task, order)
	if err != nil {
		return nil, SaveResult{}, err
	}

	title := args.BatchInfo.Category + "-" + args.BatchInfo.Topic
	msg := fmt.Sprintf("题目批次已保存: %s (%d题)", saved.Name, len(args.Questions))
	result, err := s.finishSave(args.TaskLineNumber, saved, title, msg)
	return nil, result, err
}

func (s *MCPServer) saveMaterialBatch(ctx context.Context, req *mcp.CallToolRequest, args SaveMaterialBatchArgs) (*mcp.CallToolResult, SaveResult, error) {
	task, order, err := s.placement(args.TaskLineNumber, todolist.KindMaterial)
	if err != nil {
		return nil, SaveResult{}, err
	}
	batch := content.MaterialBatch{BatchInfo: args.BatchInfo, Materials: args.Materials}
	saved, err := s.store.SaveMaterials(batch, task, order)
	if err != nil {
		return nil, SaveResult{}, err
	}

	title := args.BatchInfo.Category + "-" + args.BatchInfo.Topic
	msg := fmt.Sprintf("素材批次已保存: %s (%d条)", saved.Name, len(args.Materials))
	result, err := s.finishSave(args.TaskLineNumber, saved, title, msg)
	return nil, result, err
}

func (s *MCPServer) getProgressStatus(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, ProgressStatusResult, error) {
	stats, err := s.tracker.Stats()
	if err != nil {
		return nil, ProgressStatusResult{}, err
	}
	return nil, ProgressStatusResult{
		Success:    true,
		Progress:   progressOf(stats),
		BySection:  stats.BySection,
		SourceFile: s.tracker.Path(),
	}, nil
}

func (s *MCPServer) listPendingTasks(ctx context.Context, req *mcp.CallToolRequest, args ListPendingArgs) (*mcp.CallToolResult, ListPendingResult, error) {
	limit := defaultListLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	tasks, total, err := s.tracker.ListPending(limit, args.SectionFilter)
	if err != nil {
		return nil, ListPendingResult{}, err
	}
	return nil, ListPendingResult{
		Success:      true,
		TotalPending: total,
		Showing:      len(tasks),
		Tasks:        toInfos(tasks),
	}, nil
}

func (s *MCPServer) importToDatabase(ctx context.Context, req *mcp.CallToolRequest, args ImportArgs) (*mcp.CallToolResult, ImportResult, error) {
	dir := s.store.Dir()
	files, err := s.importer.Pending(dir)
	if err != nil {
		return nil, ImportResult{}, err
	}

	result := ImportResult{
		Success:      true,
		DryRun:       args.DryRun,
		PendingFiles: make([]string, len(files)),
		PendingCount: len(files),
		APIBase:      s.config.APIBaseURL,
	}
	for i, f := range files {
		result.PendingFiles[i] = f.Rel()
	}
	if len(files) == 0 {
		result.Message = "没有待导入的文件"
		return nil, result, nil
	}

	report, err := s.importer.Import(ctx, dir, files, args.DryRun)
	if report != nil {
		result.Results = report.Results
		result.Succeeded = report.Succeeded
		result.Failed = report.Failed
		result.Records = report.Records
	}
	if err != nil {
		return nil, ImportResult{}, err
	}

	if args.DryRun {
		result.Message = "预览模式 - 以下文件待导入"
	} else {
		result.Message = fmt.Sprintf("导入完成: 成功 %d 个文件, 失败 %d 个, 共 %d 条记录",
			report.Succeeded, report.Failed, report.Records)
		result.Success = report.Failed == 0
	}
	s.logger.Info("import finished",
		zap.Bool("dry_run", args.DryRun),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))
	return nil, result, nil
}

func (s *MCPServer) getBatchTasks(ctx context.Context, req *mcp.CallToolRequest, args BatchTasksArgs) (*mcp.CallToolResult, BatchTasksResult, error) {
	count := defaultBatchCount
	if args.Count != nil && *args.Count != 0 {
		count = *args.Count
	}
	count = min(count, maxBatchCount)

	tasks, total, err := s.tracker.ListPending(count, args.SectionFilter)
	if err != nil {
		return nil, BatchTasksResult{}, err
	}
	stats, err := s.tracker.Stats()
	if err != nil {
		return nil, BatchTasksResult{}, err
	}

	return nil, BatchTasksResult{
		Success:      true,
		BatchCount:   len(tasks),
		TotalPending: total,
		Tasks:        toInfos(tasks),
		Progress:     progressOf(stats),
		StreamHint: fmt.Sprintf("📋 获取了 %d 个任务，总进度: %d/%d (%d%%)",
			len(tasks), stats.Completed, stats.Total, stats.Percent()),
		ContinuousModeHint: "建议使用 set_continuous_mode 开启持续生成模式，保存时会自动返回下一个任务",
	}, nil
}

func (s *MCPServer) setContinuousMode(ctx context.Context, req *mcp.CallToolRequest, args ContinuousModeArgs) (*mcp.CallToolResult, ContinuousModeResult, error) {
	if err := validation.ValidateStruct(&args,
		validation.Field(&args.MaxTasks, validation.Min(0)),
	); err != nil {
		return nil, ContinuousModeResult{}, errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid max_tasks")
	}
	maxTasks := args.MaxTasks
	if maxTasks == 0 {
		maxTasks = s.config.MaxContinuousTasks
	}
	s.session.SetContinuous(args.Enabled, maxTasks)
	_, maxTasks = s.session.Continuous()

	stats, err := s.tracker.Stats()
	if err != nil {
		return nil, ContinuousModeResult{}, err
	}

	result := ContinuousModeResult{
		Success:        true,
		ContinuousMode: args.Enabled,
		MaxTasks:       maxTasks,
		Message:        "⏸️ 持续生成模式已关闭",
		Progress:       progressOf(stats),
	}
	if !args.Enabled {
		return nil, result, nil
	}

	result.Message = fmt.Sprintf("✅ 持续生成模式已开启，最多连续生成 %d 个任务", maxTasks)
	next, err := s.tracker.NextPending()
	if err != nil {
		return nil, ContinuousModeResult{}, err
	}
	if next != nil {
		info := toInfo(*next)
		result.FirstTask = &info
		result.StartHint = "🚀 开始生成: " + next.Title
	}
	return nil, result, nil
}

func (s *MCPServer) getGenerationStatus(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, GenerationStatusResult, error) {
	stats, err := s.tracker.Stats()
	if err != nil {
		return nil, GenerationStatusResult{}, err
	}
	next, err := s.tracker.NextPending()
	if err != nil {
		return nil, GenerationStatusResult{}, err
	}

	continuous, maxTasks := s.session.Continuous()
	result := GenerationStatusResult{
		Success: true,
		Status: GenerationStatus{
			ContinuousMode:     continuous,
			MaxContinuousTasks: maxTasks,
			SavedThisSession:   s.session.Saved(),
		},
		Progress:   progressOf(stats),
		SourceFile: s.tracker.Path(),
	}
	if next != nil {
		info := toInfo(*next)
		result.NextTask = &info
	}

	mode := "关闭"
	if continuous {
		mode = "开启"
	}
	result.StreamDisplay = fmt.Sprintf("📊 进度: %s %d/%d (%d%%) | 持续模式: %s",
		content.ProgressBar(stats.Completed, stats.Total), stats.Completed, stats.Total, stats.Percent(), mode)
	return nil, result, nil
}

func (s *MCPServer) reportGenerationProgress(ctx context.Context, req *mcp.CallToolRequest, args ReportProgressArgs) (*mcp.CallToolResult, ReportProgressResult, error) {
	if args.Status == "" {
		args.Status = string(content.StatusGenerating)
	}
	if err := validation.ValidateStruct(&args,
		validation.Field(&args.TaskTitle, validation.Required),
		validation.Field(&args.Status, validation.In(
			string(content.StatusStarting),
			string(content.StatusGenerating),
			string(content.StatusSaving),
			string(content.StatusCompleted),
		)),
	); err != nil {
		return nil, ReportProgressResult{}, errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid progress report")
	}

	stats, err := s.tracker.Stats()
	if err != nil {
		return nil, ReportProgressResult{}, err
	}

	status := content.Status(args.Status)
	var words *content.WordCount
	var wordsInfo *WordCountInfo
	if args.CurrentContent != "" {
		w := content.CountWords(args.CurrentContent)
		words = &w
		info := wordInfo(w)
		wordsInfo = &info
	}

	line := content.ProgressLine(stats.Completed, stats.Total, args.TaskTitle, status)
	if words != nil {
		line += " | " + words.Display()
	}

	return nil, ReportProgressResult{
		Success:     true,
		Status:      args.Status,
		TaskTitle:   args.TaskTitle,
		WordCount:   wordsInfo,
		Progress:    progressOf(stats),
		LiveDisplay: content.ProgressBox(stats, args.TaskTitle, status, words),
		StreamLine:  line,
	}, nil
}

func (s *MCPServer) getMonthGrid(ctx context.Context, req *mcp.CallToolRequest, args MonthGridArgs) (*mcp.CallToolResult, MonthGridResult, error) {
	weekStart := s.config.WeekStart
	if args.WeekStart != "" {
		weekStart = args.WeekStart
	}
	first, err := config.ParseWeekday(weekStart)
	if err != nil {
		return nil, MonthGridResult{}, errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid week_start")
	}

	cells, err := calendar.MonthGrid(args.Year, args.Month, first)
	if err != nil {
		return nil, MonthGridResult{}, err
	}

	out := make([]GridCell, len(cells))
	for i, c := range cells {
		out[i] = GridCell{Date: c.Date.String(), InMonth: c.InMonth}
	}
	return nil, MonthGridResult{
		Year:     args.Year,
		Month:    args.Month,
		Weekdays: calendar.WeekdayNames(first),
		Cells:    out,
	}, nil
}

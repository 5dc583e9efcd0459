package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/config"
	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/errs"
	"github.com/vinayprograms/syllabus/internal/git"
	"github.com/vinayprograms/syllabus/internal/importer"
	"github.com/vinayprograms/syllabus/internal/logging"
	"github.com/vinayprograms/syllabus/internal/server"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

// app holds the components every subcommand works with.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	tracker  *todolist.Tracker
	store    *content.Store
	importer *importer.Importer
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	var trackerOpts []todolist.Option
	var storeOpts []content.Option
	trackerOpts = append(trackerOpts, todolist.WithLogger(logger))
	storeOpts = append(storeOpts, content.WithLogger(logger))

	if cfg.Git.AutoCommit {
		c := git.NewCommitter(cfg.Git.AuthorName, cfg.Git.AuthorEmail, cfg.Git.Push)
		trackerOpts = append(trackerOpts, todolist.WithCommitter(c))
		storeOpts = append(storeOpts, content.WithCommitter(c))
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		tracker: todolist.NewTracker(cfg.TodolistPath(), trackerOpts...),
		store:   content.NewStore(cfg.OutputPath(), storeOpts...),
		importer: importer.New(importer.Options{
			BaseURL:       cfg.APIBaseURL,
			Token:         cfg.APIToken,
			Workers:       cfg.Import.Workers,
			RatePerSecond: cfg.Import.RatePerSecond,
			Timeout:       cfg.ImportTimeout(),
		}, importer.WithLogger(logger)),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Must(cfg.Logger)
	defer logger.Sync()

	InitializeColors(cfg)
	a := newApp(cfg, logger)

	args := os.Args[1:]
	if len(args) == 0 {
		if err := a.showInteractiveTUI(); err != nil {
			fail(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
	case "next":
		err = a.printNext()
	case "ls", "list":
		err = a.listPending(args[1:])
	case "done":
		err = a.markDone(args[1:])
	case "stats":
		err = a.printStats()
	case "report":
		err = a.printReport()
	case "import":
		err = a.runImport(ctx, args[1:])
	case "mcp":
		srv := server.NewMCPServer(cfg, a.tracker, a.store, a.importer, logger)
		err = srv.Run(ctx)
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Printf("ERROR: %v\n", err)
	if errs.IsNotFound(err) {
		fmt.Println("Set TODOLIST_FILE or todolist_file in " + config.Path("~"))
	}
	os.Exit(1)
}

func printHelp() {
	help := `todolist - Track a markdown content checklist and the files generated from it

USAGE:
    todolist [COMMAND] [OPTIONS]

COMMANDS:
    (no command)              Interactive checklist with live reload
    next                      Show the first unchecked task
    ls [-n N] [SECTION]       List unchecked tasks, optionally only those in SECTION
    done LINE                 Check off the task on LINE (1-based, as shown by ls)
    stats                     Completion table per section
    report                    Progress and generated-content report
    import [--dry-run] [FILE...]
                              Send generated files to the backend API. Without
                              FILE arguments every file not yet imported is sent.
                              Exits 1 when any file fails.
    mcp                       Start MCP server (stdio) for AI agent integration
    -h, --help, help          Show this help message

INTERACTIVE MODE:
    Type to filter            Filter tasks by typing
    j/k or ↑/↓                Navigate tasks
    Enter or x                Check off the selected task
    c                         Show or hide completed tasks
    q                         Quit (when not filtering)

ENVIRONMENT:
    PROJECT_ROOT              Directory relative paths are resolved against
    TODOLIST_FILE             Checklist file (default docs/content-creation-todolist.md)
    OUTPUT_DIR                Generated content directory (default scripts/generated)
    API_BASE_URL, API_TOKEN   Backend used by import
    AUTO_COMMIT               Commit checklist and content changes with git
`
	fmt.Print(help)
}

func (a *app) printNext() error {
	task, err := a.tracker.NextPending()
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Println("🎉 所有任务已完成！")
		return nil
	}
	fmt.Println(formatTask(*task))
	return nil
}

// parseListArgs reads "[-n N] [SECTION]".
func parseListArgs(args []string) (limit int, section string, err error) {
	limit = 20
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 >= len(args) {
				return 0, "", errs.Invalid(errs.CodeInvalidLimit, "%s needs a value", args[i])
			}
			limit, err = strconv.Atoi(args[i+1])
			if err != nil {
				return 0, "", errs.Invalid(errs.CodeInvalidLimit, "invalid limit %q", args[i+1])
			}
			i++
		default:
			section = args[i]
		}
	}
	return limit, section, nil
}

func (a *app) listPending(args []string) error {
	limit, section, err := parseListArgs(args)
	if err != nil {
		return err
	}
	tasks, total, err := a.tracker.ListPending(limit, section)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		fmt.Println(formatTask(t))
	}
	if total > len(tasks) {
		fmt.Printf("... %d more\n", total-len(tasks))
	}
	return nil
}

// formatTask is the plain one-line form used by next and ls, with a
// 1-based line number.
func formatTask(t todolist.Task) string {
	subject, kind := todolist.Classify(t)
	section := t.Section
	if t.Subsection != "" {
		section += " / " + t.Subsection
	}
	return fmt.Sprintf("%5d  %-4s %-8s %s  (%s)", t.LineNumber+1, subject.Name(), kind, t.DisplayTitle(), section)
}

// parseLine converts a 1-based line argument into a 0-based line number.
func parseLine(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, errs.Invalid(errs.CodeInvalidLine, "line must be a positive number, got %q", arg)
	}
	return n - 1, nil
}

func (a *app) markDone(args []string) error {
	if len(args) != 1 {
		return errs.Invalid(errs.CodeInvalidLine, "usage: todolist done LINE")
	}
	line, err := parseLine(args[0])
	if err != nil {
		return err
	}
	ok, err := a.tracker.MarkComplete(line)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("Line %d has no unchecked task\n", line+1)
		return nil
	}
	fmt.Printf("✅ Checked off line %d\n", line+1)
	return nil
}

func (a *app) printStats() error {
	tasks, err := a.tracker.Load()
	if err != nil {
		return err
	}
	stats := todolist.ComputeStats(tasks)
	fmt.Println(statsTable(stats, todolist.Sections(tasks)))
	fmt.Printf("%s %d/%d (%d%%)\n",
		colors.progress.Render(content.ProgressBar(stats.Completed, stats.Total)),
		stats.Completed, stats.Total, stats.Percent())
	return nil
}

func (a *app) printReport() error {
	tasks, err := a.tracker.Load()
	if err != nil {
		return err
	}
	entries, err := content.Inventory(a.store.Dir())
	if err != nil {
		return err
	}
	pending, err := a.importer.Pending(a.store.Dir())
	if err != nil {
		return err
	}

	md := buildReport(filepath.Base(a.tracker.Path()), tasks, entries, len(pending))
	out, err := renderMarkdown(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	dryRun := false
	var paths []string
	for _, arg := range args {
		if arg == "--dry-run" || arg == "-n" {
			dryRun = true
			continue
		}
		paths = append(paths, arg)
	}

	dir := a.store.Dir()
	var files []content.File
	if len(paths) == 0 {
		pending, err := a.importer.Pending(dir)
		if err != nil {
			return err
		}
		files = pending
	}
	for _, p := range paths {
		f, err := importer.FileAt(a.cfg.Resolve(p))
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		fmt.Println("✨ 没有待导入的文件")
		return nil
	}

	fmt.Printf("📦 %d files → %s\n", len(files), a.cfg.APIBaseURL)
	report, err := a.importer.Import(ctx, dir, files, dryRun)
	if report != nil {
		for _, r := range report.Results {
			if r.Success {
				fmt.Printf("  ✅ %s (%d)\n", r.File, r.Count)
			} else {
				fmt.Printf("  ❌ %s: %s\n", r.File, r.Error)
			}
		}
		mode := ""
		if dryRun {
			mode = " (dry run)"
		}
		fmt.Printf("\n%d succeeded, %d failed, %d records%s\n", report.Succeeded, report.Failed, report.Records, mode)
	}
	return importOutcome(report, err)
}

// importOutcome turns per-file failures into an error so the command exits
// non-zero.
func importOutcome(report *importer.Report, err error) error {
	if err != nil {
		return err
	}
	if report != nil && report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", report.Failed, len(report.Results))
	}
	return nil
}

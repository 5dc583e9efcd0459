package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultTodolistFile = "docs/content-creation-todolist.md"
	DefaultOutputDir    = "scripts/generated"
	DefaultAPIBaseURL   = "http://localhost:8080/api/v1"
)

// colorNameMap maps user-friendly color names to ANSI 16-color values
var colorNameMap = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",

	"bright-black":   "8",
	"gray":           "8", // alias for bright-black
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// resolveColorValue converts color names to ANSI numbers. Hex values,
// ANSI numbers and 256-color codes pass through for lipgloss to handle.
func resolveColorValue(colorInput string) string {
	if colorInput == "" {
		return colorInput
	}
	if ansiValue, exists := colorNameMap[strings.ToLower(colorInput)]; exists {
		return ansiValue
	}
	return colorInput
}

type ColorScheme struct {
	SectionColor     string `toml:"section"`
	PendingColor     string `toml:"pending"`
	CompletedColor   string `toml:"completed"`
	TitleColor       string `toml:"title"`
	ParentColor      string `toml:"parent"`
	LineColor        string `toml:"line"`
	TodayColor       string `toml:"today"`
	TodayBgColor     string `toml:"today-bg"`
	FillerColor      string `toml:"filler"`
	HolidayColor     string `toml:"holiday"`
	TableBorderColor string `toml:"table-border"`
	ProgressBarColor string `toml:"progress"`
}

type Git struct {
	AutoCommit  bool   `toml:"auto_commit"`
	Push        bool   `toml:"push"`
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

type Import struct {
	Workers       int     `toml:"workers"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Timeout       string  `toml:"timeout"`
}

type Logger struct {
	Level        string `toml:"level"`
	Encoding     string `toml:"encoding"` // "console" or "json"
	ColorEnabled bool   `toml:"color"`
}

type Config struct {
	ProjectRoot        string      `toml:"project_root"`
	TodolistFile       string      `toml:"todolist_file"`
	OutputDir          string      `toml:"output_dir"`
	APIBaseURL         string      `toml:"api_base_url"`
	APIToken           string      `toml:"api_token"`
	WeekStart          string      `toml:"week_start"` // "sunday" or "monday"
	MaxContinuousTasks int         `toml:"max_continuous_tasks"`
	ColorMode          string      `toml:"color_mode"` // "light", "dark", or empty for auto-detect
	Git                Git         `toml:"git"`
	Import             Import      `toml:"import"`
	Logger             Logger      `toml:"logger"`
	Colors             ColorScheme `toml:"colors"`
}

// Path returns the location of the config file under home.
func Path(home string) string {
	return filepath.Join(home, ".config", "syllabus", "config.toml")
}

// Load builds the configuration from .env, the config file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load()

	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err == nil {
		configPath := Path(home)
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			cfg.ProjectRoot = expandEnv(cfg.ProjectRoot)
			cfg.TodolistFile = expandEnv(cfg.TodolistFile)
			cfg.OutputDir = expandEnv(cfg.OutputDir)
			cfg.APIToken = expandEnv(cfg.APIToken)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()
	cfg.initializeColors()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PROJECT_ROOT"); v != "" {
		c.ProjectRoot = expandEnv(v)
	}
	if v := os.Getenv("TODOLIST_FILE"); v != "" {
		c.TodolistFile = expandEnv(v)
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = expandEnv(v)
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("WEEK_START"); v != "" {
		c.WeekStart = v
	}
	if v := os.Getenv("AUTO_COMMIT"); v != "" {
		c.Git.AutoCommit = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
}

func (c *Config) setDefaults() {
	if c.ProjectRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			c.ProjectRoot = wd
		}
	}
	if c.TodolistFile == "" {
		c.TodolistFile = DefaultTodolistFile
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.WeekStart == "" {
		c.WeekStart = "sunday"
	}
	if c.MaxContinuousTasks == 0 {
		c.MaxContinuousTasks = 10
	}
	if c.Import.Workers == 0 {
		c.Import.Workers = 4
	}
	if c.Import.RatePerSecond == 0 {
		c.Import.RatePerSecond = 5
	}
	if c.Import.Timeout == "" {
		c.Import.Timeout = "30s"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "console"
	}
	if c.Git.AuthorName == "" {
		c.Git.AuthorName = "Syllabus"
	}
	if c.Git.AuthorEmail == "" {
		c.Git.AuthorEmail = "syllabus@local"
	}
}

func expandEnv(s string) string {
	if s == "" {
		return s
	}
	if strings.Contains(s, "$HOME") {
		home, _ := os.UserHomeDir()
		s = strings.ReplaceAll(s, "$HOME", home)
	}
	return os.ExpandEnv(s)
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root not set. Set PROJECT_ROOT or add project_root to %s", Path("~"))
	}
	if _, err := c.FirstWeekday(); err != nil {
		return err
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be positive, got %d", c.Import.Workers)
	}
	if c.Import.RatePerSecond <= 0 {
		return fmt.Errorf("import.rate_per_second must be positive, got %s",
			strconv.FormatFloat(c.Import.RatePerSecond, 'f', -1, 64))
	}
	if _, err := time.ParseDuration(c.Import.Timeout); err != nil {
		return fmt.Errorf("invalid import.timeout %q: %w", c.Import.Timeout, err)
	}
	return nil
}

// TodolistPath resolves the todolist file against the project root.
func (c *Config) TodolistPath() string {
	return c.Resolve(c.TodolistFile)
}

// OutputPath resolves the generated-content directory against the project root.
func (c *Config) OutputPath() string {
	return c.Resolve(c.OutputDir)
}

// Resolve returns p unchanged when absolute, otherwise joined to the project root.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// FirstWeekday maps WeekStart onto a time.Weekday.
func (c *Config) FirstWeekday() (time.Weekday, error) {
	return ParseWeekday(c.WeekStart)
}

// ParseWeekday accepts "sunday" or "monday", full or abbreviated and in any
// case. Empty means Sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week_start %q (want sunday or monday)", s)
	}
}

// ImportTimeout returns the per-request timeout, falling back to 30s.
func (c *Config) ImportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Import.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// initializeColors sets up default colors based on color mode.
// Colors can be overridden in the config file [colors] section.
func (c *Config) initializeColors() {
	colorMode := c.ColorMode
	if colorMode == "" {
		if envMode := os.Getenv("SYLLABUS_COLOR_MODE"); envMode != "" {
			colorMode = envMode
		}
	}

	lightMode := ColorScheme{
		SectionColor:     "4", // Blue
		PendingColor:     "5", // Magenta
		CompletedColor:   "8", // Bright black (faded)
		TitleColor:       "0", // Black
		ParentColor:      "6", // Cyan
		LineColor:        "8", // Bright black
		TodayColor:       "0", // Black text
		TodayBgColor:     "3", // Yellow background
		FillerColor:      "7", // Light gray
		HolidayColor:     "1", // Red
		TableBorderColor: "4", // Blue
		ProgressBarColor: "2", // Green
	}

	darkMode := ColorScheme{
		SectionColor:     "2",   // Green
		PendingColor:     "3",   // Yellow
		CompletedColor:   "8",   // Bright black (faded)
		TitleColor:       "15",  // White
		ParentColor:      "14",  // Light cyan
		LineColor:        "8",   // Bright black
		TodayColor:       "0",   // Black text
		TodayBgColor:     "11",  // Yellow background
		FillerColor:      "8",   // Bright black
		HolidayColor:     "9",   // Bright red
		TableBorderColor: "212", // Pink
		ProgressBarColor: "10",  // Bright green
	}

	var defaults ColorScheme
	switch strings.ToLower(colorMode) {
	case "light":
		defaults = lightMode
	default:
		defaults = darkMode
	}

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
		*dst = resolveColorValue(*dst)
	}
	fill(&c.Colors.SectionColor, defaults.SectionColor)
	fill(&c.Colors.PendingColor, defaults.PendingColor)
	fill(&c.Colors.CompletedColor, defaults.CompletedColor)
	fill(&c.Colors.TitleColor, defaults.TitleColor)
	fill(&c.Colors.ParentColor, defaults.ParentColor)
	fill(&c.Colors.LineColor, defaults.LineColor)
	fill(&c.Colors.TodayColor, defaults.TodayColor)
	fill(&c.Colors.TodayBgColor, defaults.TodayBgColor)
	fill(&c.Colors.FillerColor, defaults.FillerColor)
	fill(&c.Colors.HolidayColor, defaults.HolidayColor)
	fill(&c.Colors.TableBorderColor, defaults.TableBorderColor)
	fill(&c.Colors.ProgressBarColor, defaults.ProgressBarColor)
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/calendar"
	"github.com/vinayprograms/syllabus/internal/config"
	"github.com/vinayprograms/syllabus/internal/logging"
)

type ColorScheme struct {
	header  lipgloss.Style
	day     lipgloss.Style
	filler  lipgloss.Style
	today   lipgloss.Style
	holiday lipgloss.Style
	border  lipgloss.Style
}

var colors ColorScheme

func InitializeColors(cfg *config.Config) {
	c := cfg.Colors
	colors = ColorScheme{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.SectionColor)),
		day:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.TitleColor)),
		filler:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.FillerColor)),
		today:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.TodayColor)).Background(lipgloss.Color(c.TodayBgColor)),
		holiday: lipgloss.NewStyle().Foreground(lipgloss.Color(c.HolidayColor)),
		border:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(c.TableBorderColor)).Padding(0, 1),
	}
}

// options are the flags shared by every view.
type options struct {
	locale string
	region string
	args   []string
}

func parseOptions(args []string) options {
	var o options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--holidays", "-H":
			if i+1 < len(args) {
				o.locale = args[i+1]
				i++
			}
		case "--region":
			if i+1 < len(args) {
				o.region = args[i+1]
				i++
			}
		default:
			o.args = append(o.args, args[i])
		}
	}
	return o
}

// parseMonth reads "[YEAR MONTH]" with a 1-based month and returns the
// 0-based month the grid works with.
func parseMonth(args []string, now time.Time) (int, int, error) {
	switch len(args) {
	case 0:
		return now.Year(), int(now.Month()) - 1, nil
	case 2:
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", args[0])
		}
		month, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q", args[1])
		}
		return year, month - 1, nil
	default:
		return 0, 0, fmt.Errorf("expected YEAR MONTH")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	weekStart, err := cfg.FirstWeekday()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.Must(cfg.Logger)
	defer logger.Sync()
	InitializeColors(cfg)

	now := time.Now()
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "-h", "--help", "help":
		printHelp()
		return
	case "week":
		o := parseOptions(args[1:])
		day := calendar.DateOf(now)
		if len(o.args) > 0 {
			if day, err = calendar.ParseDate(o.args[0]); err != nil {
				fail(err)
			}
		}
		holidays := loadHolidays(o, day.Year, logger)
		fmt.Println(renderWeek(day, weekStart, calendar.DateOf(now), holidays))
		return
	case "holidays":
		o := parseOptions(args[1:])
		year := now.Year()
		if len(o.args) > 0 {
			if year, err = strconv.Atoi(o.args[0]); err != nil {
				fail(fmt.Errorf("invalid year %q", o.args[0]))
			}
		}
		if o.locale == "" {
			o.locale = "en-US"
		}
		holidays, err := calendar.FetchHolidays(context.Background(), http.DefaultClient, calendar.HolidataURL, o.locale, o.region, year)
		if err != nil {
			fail(err)
		}
		fmt.Print(listHolidays(holidays))
		fmt.Println("\nAll information is sourced from " + calendar.HolidataURL)
		return
	}

	o := parseOptions(args)
	year, month, err := parseMonth(o.args, now)
	if err != nil {
		fail(err)
	}
	holidays := loadHolidays(o, year, logger)
	out, err := renderMonth(year, month, weekStart, calendar.DateOf(now), holidays)
	if err != nil {
		fail(err)
	}
	fmt.Println(out)
}

func fail(err error) {
	fmt.Printf("ERROR: %v\n", err)
	os.Exit(1)
}

// loadHolidays fetches holidays when --holidays was given. A failed fetch
// only loses the decoration.
func loadHolidays(o options, year int, logger *zap.Logger) calendar.Holidays {
	if o.locale == "" {
		return nil
	}
	h, err := calendar.FetchHolidays(context.Background(), http.DefaultClient, calendar.HolidataURL, o.locale, o.region, year)
	if err != nil {
		logger.Warn("holidays unavailable", zap.String("locale", o.locale), zap.Error(err))
		return nil
	}
	return h
}

func printHelp() {
	help := `cal - Month and week calendar

USAGE:
    cal [YEAR MONTH] [--holidays LOCALE [--region REGION]]
    cal week [YYYY-MM-DD] [--holidays LOCALE [--region REGION]]
    cal holidays [YEAR] [--holidays LOCALE] [--region REGION]

COMMANDS:
    (no command)        Show the current month, or MONTH (1-12) of YEAR
    week                Show the week containing today or the given date
    holidays            List holidays for a year (default locale en-US)
    -h, --help, help    Show this help message

The first day of the week comes from week_start in the config file.
Holidays are sourced from https://holidata.net/
`
	fmt.Print(help)
}

func styleDay(d calendar.Date, inMonth bool, today calendar.Date, holidays calendar.Holidays) string {
	label := fmt.Sprintf("%2d", d.Day)
	switch {
	case d.Equal(today):
		return colors.today.Render(label)
	case !inMonth:
		return colors.filler.Render(label)
	case holidays[d] != "":
		return colors.holiday.Render(label)
	default:
		return colors.day.Render(label)
	}
}

// renderMonth draws the six-week grid for the 0-based month with holidays
// of that month listed underneath.
func renderMonth(year, month int, weekStart time.Weekday, today calendar.Date, holidays calendar.Holidays) (string, error) {
	cells, err := calendar.MonthGrid(year, month, weekStart)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %d", time.Month(month+1), year)
	b.WriteString(colors.header.Render(fmt.Sprintf("%-20s", title)) + "\n")

	names := calendar.WeekdayNames(weekStart)
	for i, n := range names {
		names[i] = n[:2]
	}
	b.WriteString(colors.header.Render(strings.Join(names, " ")) + "\n")

	for _, row := range calendar.Weeks(cells) {
		days := make([]string, len(row))
		for i, c := range row {
			days[i] = styleDay(c.Date, c.InMonth, today, holidays)
		}
		b.WriteString(strings.Join(days, " ") + "\n")
	}

	var inMonth calendar.Holidays
	for d, name := range holidays {
		if d.Year == year && d.Month == time.Month(month+1) {
			if inMonth == nil {
				inMonth = make(calendar.Holidays)
			}
			inMonth[d] = name
		}
	}
	if len(inMonth) > 0 {
		b.WriteString("\n" + strings.TrimRight(listHolidays(inMonth), "\n") + "\n")
	}

	return colors.border.Render(strings.TrimRight(b.String(), "\n")), nil
}

func renderWeek(day calendar.Date, weekStart time.Weekday, today calendar.Date, holidays calendar.Holidays) string {
	var lines []string
	for _, d := range calendar.WeekDays(day, weekStart) {
		line := fmt.Sprintf("%s %s", d.Weekday().String()[:3], styleDay(d, true, today, holidays))
		line = fmt.Sprintf("%s  %s", d.String(), line)
		if name := holidays[d]; name != "" {
			line += "  " + colors.holiday.Render(name)
		}
		lines = append(lines, line)
	}
	return colors.border.Render(strings.Join(lines, "\n"))
}

// listHolidays prints "YYYY-MM-DD = name" lines in date order.
func listHolidays(h calendar.Holidays) string {
	dates := make([]calendar.Date, 0, len(h))
	for d := range h {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var b strings.Builder
	for _, d := range dates {
		fmt.Fprintf(&b, "%s = %s\n", d, h[d])
	}
	return b.String()
}

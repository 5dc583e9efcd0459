// Package calendar builds the fixed six-week month grid used by the exam
// calendar views, plus the week strip and holiday lookups that decorate it.
//
// All dates are plain calendar dates. Arithmetic runs in UTC so that
// daylight-saving transitions can never shift a day.
package calendar

import (
	"fmt"
	"time"

	"github.com/vinayprograms/syllabus/internal/errs"
)

// GridCells is the number of cells in a month grid: six rows of seven days.
const GridCells = 42

// Date is a calendar date without time or zone. Month is 1-based, as in
// time.Month.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Equal(o Date) bool {
	return d == o
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// AddDays returns d shifted by n days, rolling over months and years.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsToday reports whether d is the local calendar date of now.
func (d Date) IsToday(now time.Time) bool {
	return d == DateOf(now)
}

// Cell is one slot of a month grid.
type Cell struct {
	Date    Date
	InMonth bool
}

// MonthGrid returns the 42 cells for month (0-based, 0 = January) of year,
// with rows starting on weekStart. A month outside 0..11 is rejected.
func MonthGrid(year, month int, weekStart time.Weekday) ([]Cell, error) {
	if month < 0 || month > 11 {
		return nil, errs.Invalid(errs.CodeInvalidMonth, "month must be between 0 and 11, got %d", month)
	}
	return buildMonthGrid(year, month, weekStart), nil
}

// buildMonthGrid emits the leading days of the previous month, every day of
// the target month, then days of the following month until the grid holds
// GridCells entries. Day 0 and day n+1 style arguments to time.Date carry
// all month and year rollover.
func buildMonthGrid(year, month int, weekStart time.Weekday) []Cell {
	target := time.Month(month + 1)
	first := time.Date(year, target, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7

	cells := make([]Cell, 0, GridCells)
	for i := offset - 1; i >= 0; i-- {
		cells = append(cells, Cell{Date: DateOf(time.Date(year, target, -i, 0, 0, 0, 0, time.UTC))})
	}

	daysInMonth := DaysIn(year, target)
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, Cell{Date: Date{Year: year, Month: target, Day: day}, InMonth: true})
	}

	remaining := GridCells - len(cells)
	for day := 1; day <= remaining; day++ {
		cells = append(cells, Cell{Date: DateOf(time.Date(year, target+1, day, 0, 0, 0, 0, time.UTC))})
	}

	return cells
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weeks splits a grid into rows of seven.
func Weeks(cells []Cell) [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		rows = append(rows, cells[i:end])
	}
	return rows
}

// WeekDays returns the seven dates of the week containing d.
func WeekDays(d Date, weekStart time.Weekday) []Date {
	back := (int(d.Weekday()) - int(weekStart) + 7) % 7
	start := d.AddDays(-back)

	days := make([]Date, 7)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// WeekdayNames returns short weekday labels in grid column order.
func WeekdayNames(weekStart time.Weekday) []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return names
}

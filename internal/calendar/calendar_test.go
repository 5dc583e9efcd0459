package calendar

import (
	"testing"
	"time"

	"github.com/vinayprograms/syllabus/internal/errs"
)

func TestMonthGridInvariants(t *testing.T) {
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		for year := 1999; year <= 2031; year++ {
			for month := 0; month < 12; month++ {
				cells, err := MonthGrid(year, month, weekStart)
				if err != nil {
					t.Fatalf("MonthGrid(%d, %d) error = %v", year, month, err)
				}
				if len(cells) != GridCells {
					t.Fatalf("MonthGrid(%d, %d) has %d cells, want %d", year, month, len(cells), GridCells)
				}
				if cells[0].Date.Weekday() != weekStart {
					t.Errorf("MonthGrid(%d, %d) starts on %v, want %v", year, month, cells[0].Date.Weekday(), weekStart)
				}

				inMonth := 0
				for i, c := range cells {
					if i > 0 && c.Date != cells[i-1].Date.AddDays(1) {
						t.Fatalf("MonthGrid(%d, %d) gap between %s and %s", year, month, cells[i-1].Date, c.Date)
					}
					isTarget := c.Date.Year == year && c.Date.Month == time.Month(month+1)
					if c.InMonth != isTarget {
						t.Errorf("cell %s InMonth = %v, want %v", c.Date, c.InMonth, isTarget)
					}
					if c.InMonth {
						inMonth++
					}
				}
				if want := DaysIn(year, time.Month(month+1)); inMonth != want {
					t.Errorf("MonthGrid(%d, %d) has %d in-month cells, want %d", year, month, inMonth, want)
				}
			}
		}
	}
}

func countFillers(cells []Cell) (leading, trailing int) {
	i := 0
	for ; i < len(cells) && !cells[i].InMonth; i++ {
		leading++
	}
	for ; i < len(cells) && cells[i].InMonth; i++ {
	}
	trailing = len(cells) - i
	return leading, trailing
}

func TestMonthGridLeapFebruary(t *testing.T) {
	cells, err := MonthGrid(2024, 1, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}

	// Feb 1 2024 is a Thursday
	leading, trailing := countFillers(cells)
	if leading != 4 || trailing != 9 {
		t.Errorf("fillers = %d leading / %d trailing, want 4 / 9", leading, trailing)
	}
	if got := cells[0].Date; got != (Date{2024, time.January, 28}) {
		t.Errorf("first cell = %s, want 2024-01-28", got)
	}
	if got := cells[4+28].Date; got != (Date{2024, time.February, 29}) || !cells[4+28].InMonth {
		t.Errorf("cell 32 = %s (in month %v), want 2024-02-29 in month", got, cells[4+28].InMonth)
	}
	if got := cells[41].Date; got != (Date{2024, time.March, 9}) {
		t.Errorf("last cell = %s, want 2024-03-09", got)
	}
}

func TestMonthGridYearRollover(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantFirst Date
		wantLast  Date
	}{
		// Dec 1 2024 is a Sunday: no leading days, 11 January days after
		{"december", 2024, 11, Date{2024, time.December, 1}, Date{2025, time.January, 11}},
		// Jan 1 2024 is a Monday: one December day before
		{"january", 2024, 0, Date{2023, time.December, 31}, Date{2024, time.February, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, err := MonthGrid(tt.year, tt.month, time.Sunday)
			if err != nil {
				t.Fatal(err)
			}
			if cells[0].Date != tt.wantFirst {
				t.Errorf("first = %s, want %s", cells[0].Date, tt.wantFirst)
			}
			if cells[41].Date != tt.wantLast {
				t.Errorf("last = %s, want %s", cells[41].Date, tt.wantLast)
			}
		})
	}
}

func TestMonthGridMondayStart(t *testing.T) {
	// Feb 1 2024 is a Thursday: three leading days with Monday rows
	cells, err := MonthGrid(2024, 1, time.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if leading, _ := countFillers(cells); leading != 3 {
		t.Errorf("leading fillers = %d, want 3", leading)
	}
}

func TestMonthGridRejectsBadMonth(t *testing.T) {
	for _, month := range []int{-1, 12, 100} {
		_, err := MonthGrid(2024, month, time.Sunday)
		if !errs.IsInvalid(err) {
			t.Errorf("MonthGrid(2024, %d) error = %v, want invalid argument", month, err)
		}
	}
}

func TestWeeks(t *testing.T) {
	cells, _ := MonthGrid(2025, 5, time.Sunday)
	rows := Weeks(cells)
	if len(rows) != 6 {
		t.Fatalf("Weeks() = %d rows, want 6", len(rows))
	}
	for i, row := range rows {
		if len(row) != 7 {
			t.Errorf("row %d has %d cells", i, len(row))
		}
	}
}

func TestWeekDays(t *testing.T) {
	// 2024-03-01 is a Friday
	d := Date{2024, time.March, 1}

	sunday := WeekDays(d, time.Sunday)
	if sunday[0] != (Date{2024, time.February, 25}) || sunday[6] != (Date{2024, time.March, 2}) {
		t.Errorf("WeekDays(Sunday) = %v .. %v", sunday[0], sunday[6])
	}

	monday := WeekDays(d, time.Monday)
	if monday[0] != (Date{2024, time.February, 26}) || monday[6] != (Date{2024, time.March, 3}) {
		t.Errorf("WeekDays(Monday) = %v .. %v", monday[0], monday[6])
	}

	// a week start date maps onto itself
	if got := WeekDays(Date{2024, time.March, 3}, time.Sunday)[0]; got != (Date{2024, time.March, 3}) {
		t.Errorf("WeekDays on a Sunday starts at %s", got)
	}
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDate("2023-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2023-12-31" {
		t.Errorf("String() = %q", d.String())
	}
	if next := d.AddDays(1); next != (Date{2024, time.January, 1}) {
		t.Errorf("AddDays(1) = %s, want 2024-01-01", next)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before() ordering is wrong")
	}
	if !d.IsToday(time.Date(2023, 12, 31, 23, 59, 0, 0, time.Local)) {
		t.Error("IsToday() should match the same local date")
	}
	if _, err := ParseDate("31/12/2023"); err == nil {
		t.Error("ParseDate() should reject non ISO dates")
	}
}

func TestWeekdayNames(t *testing.T) {
	got := WeekdayNames(time.Monday)
	if got[0] != "Mon" || got[6] != "Sun" {
		t.Errorf("WeekdayNames(Monday) = %v", got)
	}
}

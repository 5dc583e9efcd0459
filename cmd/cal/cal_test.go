package main

import (
	"strings"
	"testing"
	"time"

	"github.com/vinayprograms/syllabus/internal/calendar"
	"github.com/vinayprograms/syllabus/internal/errs"
)

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	y, m, err := parseMonth(nil, now)
	if err != nil || y != 2025 || m != 2 {
		t.Errorf("parseMonth(nil) = %d, %d, %v; want 2025, 2", y, m, err)
	}
	y, m, err = parseMonth([]string{"2024", "12"}, now)
	if err != nil || y != 2024 || m != 11 {
		t.Errorf("parseMonth(2024 12) = %d, %d, %v; want 2024, 11", y, m, err)
	}
	for _, bad := range [][]string{{"2024"}, {"x", "1"}, {"2024", "y"}} {
		if _, _, err := parseMonth(bad, now); err == nil {
			t.Errorf("parseMonth(%v) should fail", bad)
		}
	}
}

func TestParseOptions(t *testing.T) {
	o := parseOptions([]string{"2025", "--holidays", "zh-CN", "5", "--region", "BJ"})
	if o.locale != "zh-CN" || o.region != "BJ" {
		t.Errorf("options = %+v", o)
	}
	if strings.Join(o.args, " ") != "2025 5" {
		t.Errorf("args = %v", o.args)
	}
}

func TestRenderMonth(t *testing.T) {
	today := calendar.Date{Year: 2025, Month: time.January, Day: 10}
	holidays := calendar.Holidays{
		{Year: 2025, Month: time.January, Day: 1}:  "New Year's Day",
		{Year: 2025, Month: time.February, Day: 1}: "Elsewhere",
	}

	out, err := renderMonth(2025, 0, time.Sunday, today, holidays)
	if err != nil {
		t.Fatalf("renderMonth() error = %v", err)
	}
	if !strings.Contains(out, "January 2025") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Su Mo Tu We Th Fr Sa") {
		t.Errorf("missing weekday header:\n%s", out)
	}
	if !strings.Contains(out, "2025-01-01 = New Year's Day") {
		t.Errorf("missing holiday of the month:\n%s", out)
	}
	if strings.Contains(out, "Elsewhere") {
		t.Errorf("holidays of other months should not be listed:\n%s", out)
	}
	// Jan 2025 starts on a Wednesday: the first row begins with Dec 29.
	if !strings.Contains(out, "29 30 31  1  2  3  4") {
		t.Errorf("first row wrong:\n%s", out)
	}

	if _, err := renderMonth(2025, 12, time.Sunday, today, nil); !errs.IsInvalid(err) {
		t.Errorf("month 12 error = %v, want invalid", err)
	}
}

func TestRenderWeek(t *testing.T) {
	day := calendar.Date{Year: 2025, Month: time.January, Day: 1}
	out := renderWeek(day, time.Monday, calendar.Date{}, calendar.Holidays{day: "New Year's Day"})

	if !strings.Contains(out, "2024-12-30  Mon 30") {
		t.Errorf("week should start on Monday Dec 30:\n%s", out)
	}
	if !strings.Contains(out, "2025-01-05  Sun  5") {
		t.Errorf("week should end on Sunday Jan 5:\n%s", out)
	}
	if !strings.Contains(out, "New Year's Day") {
		t.Errorf("missing holiday name:\n%s", out)
	}
}

func TestListHolidays(t *testing.T) {
	h := calendar.Holidays{
		{Year: 2025, Month: time.May, Day: 1}:     "Labour Day",
		{Year: 2025, Month: time.January, Day: 1}: "New Year",
	}
	want := "2025-01-01 = New Year\n2025-05-01 = Labour Day\n"
	if got := listHolidays(h); got != want {
		t.Errorf("listHolidays() = %q, want %q", got, want)
	}
}

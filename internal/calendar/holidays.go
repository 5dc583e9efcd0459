package calendar

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HolidataURL is the public holiday feed. Each locale/year is one CSV file.
const HolidataURL = "https://holidata.net"

// Holidays maps a date to the holiday name observed on it.
type Holidays map[Date]string

// FetchHolidays downloads the holidata CSV for locale and year and keeps the
// nationwide rows plus those for region (empty region keeps nationwide only).
func FetchHolidays(ctx context.Context, client *http.Client, baseURL, locale, region string, year int) (Holidays, error) {
	if client == nil {
		client = http.DefaultClient
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	url := fmt.Sprintf("%s/%s/%d.csv", strings.TrimRight(baseURL, "/"), locale, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch holidays: %s returned %s", url, resp.Status)
	}
	return ParseHolidays(resp.Body, region)
}

// ParseHolidays reads holidata CSV rows: locale, region, date, description, ...
func ParseHolidays(r io.Reader, region string) (Holidays, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Holidays{}, nil
		}
		return nil, err
	}

	holidays := make(Holidays)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 4 {
			continue
		}
		regn := strings.TrimSpace(record[1])
		if regn != "" && regn != region {
			continue
		}
		d, err := ParseDate(strings.TrimSpace(record[2]))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(record[3])
		if existing, ok := holidays[d]; ok && existing != name {
			name = existing + " / " + name
		}
		holidays[d] = name
	}
	return holidays, nil
}

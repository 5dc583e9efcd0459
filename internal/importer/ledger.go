package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const ledgerName = ".imported.json"

// ledger records which generated files the backend has already accepted,
// by path relative to the output directory.
type ledger struct {
	Files       []string `json:"files"`
	LastUpdated string   `json:"last_updated"`
}

func loadLedger(dir string) ledger {
	data, err := os.ReadFile(filepath.Join(dir, ledgerName))
	if err != nil {
		return ledger{}
	}
	var l ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return ledger{}
	}
	return l
}

func (l ledger) has(rel string) bool {
	for _, f := range l.Files {
		if f == rel {
			return true
		}
	}
	return false
}

func (l *ledger) save(dir string, now time.Time) error {
	l.LastUpdated = now.UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ledgerName), data, 0644)
}

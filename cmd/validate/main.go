// Command validate performs integrity checks on a consolidated weather
// dataset CSV: header shape, per-row column counts, composite-key
// uniqueness, timestamp format, and field hygiene (characters that would
// corrupt downstream tabular consumers).
//
// Usage:
//
//	go run ./cmd/validate -dataset weather_data_2026-01-15.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/weather-collector/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataset := flag.String("dataset", "", "path to a weather_data_<date>.csv file")
	flag.Parse()

	if *dataset == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataset); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open dataset: %v\n", err)
		return 1
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse dataset: %v\n", err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "FATAL: dataset is empty")
		return 1
	}

	fmt.Println("=== Weather Dataset Integrity Validation ===")
	fmt.Println()

	header, records := rows[0], rows[1:]
	phases := []*phase{
		validateHeader(header),
		validateShape(header, records),
		validateKeys(header, records),
		validateHygiene(header, records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Printf("\n%d records validated\n", len(records))
	return 0
}

func validateHeader(header []string) *phase {
	p := &phase{name: "header matches schema"}
	want := domain.Columns()

	if len(header) != len(want) {
		p.errorf("header has %d columns, schema has %d", len(header), len(want))
		return p
	}
	for i, col := range want {
		if header[i] != col {
			p.errorf("column %d is %q, want %q", i, header[i], col)
		}
	}
	return p
}

func validateShape(header []string, records [][]string) *phase {
	p := &phase{name: "row shape"}
	for i, row := range records {
		if len(row) != len(header) {
			p.errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
	}
	return p
}

func validateKeys(header []string, records [][]string) *phase {
	p := &phase{name: "composite key uniqueness and timestamp format"}

	tsIdx, regionIdx := columnIndex(header, "timestamp"), columnIndex(header, "region")
	if tsIdx < 0 || regionIdx < 0 {
		p.errorf("timestamp/region columns missing, cannot check keys")
		return p
	}

	seen := make(map[string]int)
	for i, row := range records {
		if tsIdx >= len(row) || regionIdx >= len(row) {
			continue // reported by the shape phase
		}
		ts, region := row[tsIdx], row[regionIdx]

		if _, err := time.Parse(domain.TimestampLayout, ts); err != nil {
			p.errorf("row %d: bad timestamp %q", i+1, ts)
		}
		if region == "" {
			p.errorf("row %d: empty region", i+1)
		}

		key := ts + "_" + region
		if prev, dup := seen[key]; dup {
			p.errorf("row %d duplicates key %q from row %d", i+1, key, prev)
			continue
		}
		seen[key] = i + 1
	}
	return p
}

func validateHygiene(header []string, records [][]string) *phase {
	p := &phase{name: "field hygiene"}

	alertsIdx := columnIndex(header, "has_alerts")
	detailIdx := columnIndex(header, "detailed_forecast")

	for i, row := range records {
		for j, cell := range row {
			if strings.ContainsAny(cell, "\n\r") {
				p.errorf("row %d column %d contains a line break", i+1, j)
			}
		}
		if alertsIdx >= 0 && alertsIdx < len(row) {
			if v := row[alertsIdx]; v != "Yes" && v != "No" {
				p.errorf("row %d: has_alerts is %q, want Yes or No", i+1, v)
			}
		}
		if detailIdx >= 0 && detailIdx < len(row) {
			if strings.Contains(row[detailIdx], ",") {
				p.errorf("row %d: detailed_forecast contains a raw comma", i+1)
			}
		}
	}
	return p
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

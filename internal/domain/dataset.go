package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrSnapshotNotFound is returned by snapshot stores when no dataset object
// exists yet for a date partition. MergeRecord callers treat it as an empty
// dataset.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotKey returns the object name of the dataset for t's UTC calendar day.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("weather_data_%s.csv", t.UTC().Format("2006-01-02"))
}

// CurrentSnapshotKey returns the dataset object name for today.
func CurrentSnapshotKey() string {
	return SnapshotKey(clock.Now())
}

// MergeResult reports what a merge did alongside the replacement bytes.
type MergeResult struct {
	Data     []byte
	Appended bool // the new record's key was not already present
	Reset    bool // prior content was discarded as empty or corrupt
	Kept     int  // surviving prior rows after dedup
}

// MergeRecord merges one new record into the existing serialized dataset
// and returns the complete replacement bytes.
//
// The existing bytes may be nil (no dataset yet), corrupt, or contain
// duplicate keys from earlier partial failures. Corrupt input is treated as
// absent: the merge starts over from a header-only dataset, accepting the
// loss of the unreadable content. Surviving rows keep their order, each key
// keeps only its first occurrence, and the new record is appended only when
// its key is not already present. Columns are always emitted in schema
// order with every cell passed through CleanValue; the result replaces the
// prior object wholesale.
func MergeRecord(existing []byte, rec *WeatherRecord) (MergeResult, error) {
	rows, seen, reset := decodeSnapshot(existing)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return MergeResult{}, fmt.Errorf("write dataset header: %w", err)
	}
	for i := range rows {
		if err := w.Write(cleanRow(&rows[i])); err != nil {
			return MergeResult{}, fmt.Errorf("write dataset row: %w", err)
		}
	}

	appended := !seen[rec.Key()]
	if appended {
		if err := w.Write(cleanRow(rec)); err != nil {
			return MergeResult{}, fmt.Errorf("write dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return MergeResult{}, fmt.Errorf("encode dataset: %w", err)
	}
	return MergeResult{
		Data:     buf.Bytes(),
		Appended: appended,
		Reset:    reset,
		Kept:     len(rows),
	}, nil
}

// decodeSnapshot parses existing dataset bytes into deduplicated records
// plus the set of keys present. Anything that fails the structural sanity
// checks yields an empty dataset rather than an error; reset reports
// whether non-empty prior content was discarded that way.
func decodeSnapshot(data []byte) (records []WeatherRecord, seen map[string]bool, reset bool) {
	seen = map[string]bool{}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, seen, false
	}
	if !strings.Contains(text, ",") {
		return nil, seen, true
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil || !validHeader(header) {
		return nil, map[string]bool{}, true
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Unreadable mid-file: the prior content cannot be trusted,
			// start over with an empty dataset.
			return nil, map[string]bool{}, true
		}
		rec := recordFromRow(header, row)
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, rec)
	}
	return records, seen, false
}

// validHeader requires the two key columns to be present; without them rows
// cannot be deduplicated and the file is treated as corrupt.
func validHeader(header []string) bool {
	var hasTimestamp, hasRegion bool
	for _, col := range header {
		switch col {
		case "timestamp":
			hasTimestamp = true
		case "region":
			hasRegion = true
		}
	}
	return hasTimestamp && hasRegion
}

// recordFromRow maps a decoded CSV row onto the fixed schema by header
// name. Unknown columns are dropped and missing ones stay empty, so a
// malformed prior file still re-serializes in canonical column order.
func recordFromRow(header, row []string) WeatherRecord {
	var rec WeatherRecord
	fields := rec.fields()
	for i, col := range header {
		if i >= len(row) {
			break
		}
		if p, ok := fields[col]; ok {
			*p = row[i]
		}
	}
	return rec
}

func cleanRow(rec *WeatherRecord) []string {
	row := rec.row()
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = CleanValue(v)
	}
	return out
}

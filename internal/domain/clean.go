package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanValue makes a single field value safe for embedding in a
// comma-delimited row. It is pure and total: any input shape yields a
// string, never a panic.
//
// Strings are trimmed, stripped of newlines, and have doubled quote runs
// collapsed to a single quote; doubled quotes accumulate when a previously
// serialized dataset is read back and re-escaped, so collapsing keeps
// repeated merges from growing quote chains. If a comma or quote survives
// cleaning, the value is wrapped in quotes and backticks are removed.
func CleanValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case string:
		return cleanString(v)
	default:
		return fmt.Sprint(v)
	}
}

func cleanString(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	for strings.Contains(cleaned, `""`) {
		cleaned = strings.ReplaceAll(cleaned, `""`, `"`)
	}
	cleaned = strings.Trim(cleaned, `"`)
	if strings.ContainsAny(cleaned, `,"`) {
		// Backtick removal predates this service; existing datasets were
		// written without backticks in quoted cells, so keep it for
		// compatibility.
		return `"` + strings.ReplaceAll(cleaned, "`", "") + `"`
	}
	return cleaned
}

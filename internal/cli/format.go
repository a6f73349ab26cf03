// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/revdash/internal/pipeline"
)

// FormatRevenue formats a dollar amount compactly for cards and axes.
// e.g., 950 -> "$950", 1234567 -> "$1.23M", -2500 -> "-$2.5K"
func FormatRevenue(v float64) string {
	if v < 0 {
		return "-" + FormatRevenue(-v)
	}

	switch {
	case v >= 1_000_000_000:
		return "$" + trimZeros(fmt.Sprintf("%.2f", v/1_000_000_000)) + "B"
	case v >= 1_000_000:
		return "$" + trimZeros(fmt.Sprintf("%.2f", v/1_000_000)) + "M"
	case v >= 1_000:
		return "$" + trimZeros(fmt.Sprintf("%.1f", v/1_000)) + "K"
	default:
		return "$" + trimZeros(fmt.Sprintf("%.2f", v))
	}
}

// FormatCurrency formats a dollar amount in full with separators and cents.
// e.g., 1234567.891 -> "$1,234,567.89"
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatDuration formats a duration for status output.
// e.g., 3725s -> "1h 2m", 125s -> "2m", 45s -> "45s"
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatYearSpan renders an inclusive year range, collapsing equal ends.
func FormatYearSpan(minYear, maxYear int) string {
	if minYear == 0 && maxYear == 0 {
		return "-"
	}
	if minYear == maxYear {
		return strconv.Itoa(minYear)
	}
	return fmt.Sprintf("%d-%d", minYear, maxYear)
}

// Label returns s, or a visible placeholder for the empty category.
func Label(s string) string {
	if s == "" {
		return pipeline.BlankLabel
	}
	return s
}

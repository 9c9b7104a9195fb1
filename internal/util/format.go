package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown wherever a string field is absent.
const Placeholder = "-"

// FormatNumber abbreviates large counts: 1500 -> 1.5K
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatThousands renders an integer with comma separators: 12345 -> 12,345
func FormatThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatSeconds renders an elapsed duration given in seconds: 45s, 2m 5s, 1h 3m
func FormatSeconds(seconds float64) string {
	if seconds <= 0 {
		return Placeholder
	}
	total := int(seconds)
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
	}
}

// MillisToSeconds is the single ms -> s normalization used for every rate display.
func MillisToSeconds(ms float64) float64 {
	return ms / 1000
}

// FormatResponseTime renders a response time given in milliseconds as seconds: 2500 -> 2.50s
func FormatResponseTime(ms float64) string {
	return fmt.Sprintf("%.2fs", MillisToSeconds(ms))
}

// FormatPercent renders a 0-100 value with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatTokenRate renders a tokens-per-second rate.
func FormatTokenRate(rate float64) string {
	if rate < 1000 {
		return fmt.Sprintf("%.1f tokens/s", rate)
	}
	return fmt.Sprintf("%.1fK tokens/s", rate/1000)
}

// FormatStatus converts a research status enum to its display label.
func FormatStatus(status string) string {
	switch status {
	case "pending":
		return "Pending"
	case "in_progress":
		return "In Progress"
	case "completed":
		return "Completed"
	case "failed":
		return "Failed"
	case "suspended":
		return "Suspended"
	case "":
		return "Unknown"
	default:
		return titleWords(status)
	}
}

// FormatMode converts a research mode enum to its display label.
func FormatMode(mode string) string {
	switch mode {
	case "quick":
		return "Quick Summary"
	case "detailed":
		return "Detailed Report"
	case "":
		return "Unknown"
	default:
		return titleWords(mode)
	}
}

// FormatPhase makes a research phase key readable: "search_iteration" -> "Search Iteration".
func FormatPhase(phase string) string {
	if phase == "" {
		return "Unknown"
	}
	return titleWords(phase)
}

// FormatDate renders a timestamp in the configured timezone; zero time renders the placeholder.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return GetTimeProvider().Format(t, "2006-01-02 15:04")
}

// OrPlaceholder returns s, or the placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Truncate shortens s to at most max display columns, appending an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || GetDisplayWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return TruncateWidth(s, max, "")
	}
	return TruncateWidth(s, max, "...")
}

func titleWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

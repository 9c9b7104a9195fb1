package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "hundreds", input: 999, expected: "999"},
		{name: "exactly 1000", input: 1000, expected: "1.0K"},
		{name: "thousands", input: 1500, expected: "1.5K"},
		{name: "exactly 1 million", input: 1000000, expected: "1.0M"},
		{name: "millions", input: 2500000, expected: "2.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1650, "1,650"},
		{12000, "12,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-98765, "-98,765"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatThousands(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "2h 5m", FormatDuration(2*time.Hour+5*time.Minute))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "absent", seconds: 0, expected: "-"},
		{name: "negative", seconds: -3, expected: "-"},
		{name: "seconds only", seconds: 45.7, expected: "45s"},
		{name: "minutes", seconds: 125, expected: "2m 5s"},
		{name: "hours", seconds: 3780, expected: "1h 3m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeconds(tt.seconds))
		})
	}
}

func TestFormatResponseTime(t *testing.T) {
	tests := []struct {
		ms       float64
		expected string
	}{
		{2500, "2.50s"},
		{0, "0.00s"},
		{1, "0.00s"},
		{999, "1.00s"},
		{12340, "12.34s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatResponseTime(tt.ms))
		})
	}
	assert.Equal(t, 2.5, MillisToSeconds(2500))
}

func TestFormatPercentAndRate(t *testing.T) {
	assert.Equal(t, "87.5%", FormatPercent(87.5))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "12.3 tokens/s", FormatTokenRate(12.34))
	assert.Equal(t, "2.5K tokens/s", FormatTokenRate(2500))
}

func TestFormatStatus(t *testing.T) {
	tests := map[string]string{
		"pending":     "Pending",
		"in_progress": "In Progress",
		"completed":   "Completed",
		"failed":      "Failed",
		"suspended":   "Suspended",
		"":            "Unknown",
		"queued_up":   "Queued Up",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, FormatStatus(input), input)
	}
}

func TestFormatModeAndPhase(t *testing.T) {
	assert.Equal(t, "Quick Summary", FormatMode("quick"))
	assert.Equal(t, "Detailed Report", FormatMode("detailed"))
	assert.Equal(t, "Unknown", FormatMode(""))
	assert.Equal(t, "Deep Dive", FormatMode("deep-dive"))
	assert.Equal(t, "Search Iteration", FormatPhase("search_iteration"))
	assert.Equal(t, "Unknown", FormatPhase(""))
}

func TestFormatDate(t *testing.T) {
	assert.NoError(t, InitializeTimeProvider("UTC"))
	defer InitializeTimeProvider("Local")

	assert.Equal(t, "-", FormatDate(time.Time{}))
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15 10:30", FormatDate(ts))
}

func TestOrPlaceholderAndTruncate(t *testing.T) {
	assert.Equal(t, "-", OrPlaceholder(""))
	assert.Equal(t, "-", OrPlaceholder("   "))
	assert.Equal(t, "query", OrPlaceholder("query"))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
}

func TestCreateProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░░░░░░░]", CreateProgressBar(0, 10))
	assert.Equal(t, "[█████░░░░░]", CreateProgressBar(50, 10))
	assert.Equal(t, "[██████████]", CreateProgressBar(100, 10))
	assert.Equal(t, "[██████████]", CreateProgressBar(140, 10))
	assert.Equal(t, "[░░░░░░░░░░]", CreateProgressBar(-5, 10))
}

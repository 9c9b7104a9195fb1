package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// FlexibleID accepts both numeric and string identifiers from the service.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*id = ""
		return nil
	}

	var num int64
	if err := sonic.Unmarshal(data, &num); err == nil {
		*id = FlexibleID(strconv.FormatInt(num, 10))
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*id = FlexibleID(str)
		return nil
	}

	return fmt.Errorf("id must be a number or a string, got %s", string(data))
}

func (id FlexibleID) String() string {
	return string(id)
}

// ResearchRecord is one research run as reported by the service. Read-only on this side.
type ResearchRecord struct {
	ID                 FlexibleID             `json:"id"`
	Query              string                 `json:"query"`
	Status             Status                 `json:"status"`
	Mode               string                 `json:"mode"`
	ProgressPercentage float64                `json:"progress_percentage"`
	Progress           float64                `json:"progress,omitempty"`
	CreatedAt          string                 `json:"created_at"`
	CompletedAt        string                 `json:"completed_at,omitempty"`
	DurationSeconds    float64                `json:"duration_seconds,omitempty"`
	ReportPath         string                 `json:"report_path,omitempty"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}

// Percent returns progress clamped to 0-100. Completed records always report 100.
func (r ResearchRecord) Percent() float64 {
	if r.Status == StatusCompleted {
		return 100
	}
	p := r.ProgressPercentage
	if p == 0 {
		p = r.Progress
	}
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func (r ResearchRecord) CreatedTime() time.Time {
	t, _ := util.ParseTimestamp(r.CreatedAt)
	return t
}

func (r ResearchRecord) CompletedTime() time.Time {
	t, _ := util.ParseTimestamp(r.CompletedAt)
	return t
}

// Duration returns duration_seconds, falling back to completed_at - created_at.
func (r ResearchRecord) Duration() float64 {
	if r.DurationSeconds > 0 {
		return r.DurationSeconds
	}
	created, completed := r.CreatedTime(), r.CompletedTime()
	if created.IsZero() || completed.IsZero() || completed.Before(created) {
		return 0
	}
	return completed.Sub(created).Seconds()
}

// TimelineEntry is a single LLM call with token, timing and phase metadata.
type TimelineEntry struct {
	Timestamp                  string  `json:"timestamp"`
	PromptTokens               int     `json:"prompt_tokens"`
	CompletionTokens           int     `json:"completion_tokens"`
	Tokens                     int     `json:"tokens"`
	CumulativeTokens           int     `json:"cumulative_tokens"`
	CumulativePromptTokens     int     `json:"cumulative_prompt_tokens"`
	CumulativeCompletionTokens int     `json:"cumulative_completion_tokens"`
	ResearchPhase              string  `json:"research_phase"`
	ModelName                  string  `json:"model_name"`
	ResponseTimeMs             float64 `json:"response_time_ms"`
	SuccessStatus              string  `json:"success_status"`
	CallStack                  string  `json:"call_stack,omitempty"`
	CallingFunction            string  `json:"calling_function,omitempty"`
	ErrorType                  string  `json:"error_type,omitempty"`
}

// Succeeded reports whether the call was recorded as successful.
func (e TimelineEntry) Succeeded() bool {
	return e.SuccessStatus == OutcomeSuccess
}

// SearchCall is a single search-engine request made during research.
type SearchCall struct {
	Engine         string  `json:"engine"`
	Query          string  `json:"query"`
	ResultsCount   int     `json:"results_count"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	SuccessStatus  string  `json:"success_status"`
	Timestamp      string  `json:"timestamp"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

func (c SearchCall) Succeeded() bool {
	return c.SuccessStatus == OutcomeSuccess
}

// PhaseStat aggregates calls made within one research phase. AvgResponseTime is in milliseconds.
type PhaseStat struct {
	Tokens          int     `json:"tokens"`
	Count           int     `json:"count"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// ModelUsage is token usage of a single model.
type ModelUsage struct {
	ModelName        string `json:"model_name"`
	ModelProvider    string `json:"model_provider,omitempty"`
	Tokens           int    `json:"tokens"`
	Calls            int    `json:"calls"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// EngineStat is per-engine search usage as reported by the service.
type EngineStat struct {
	Engine          string  `json:"engine"`
	CallCount       int     `json:"call_count"`
	AvgResponseTime float64 `json:"avg_response_time"`
	TotalResults    int     `json:"total_results"`
	AvgResults      float64 `json:"avg_results"`
	SuccessRate     float64 `json:"success_rate"`
}

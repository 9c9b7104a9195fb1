package model

// HistoryResponse is returned by GET /research/api/history
type HistoryResponse struct {
	Status string           `json:"status,omitempty"`
	Items  []ResearchRecord `json:"items"`
}

// MetricsResponse is returned by GET /metrics/research/{id}
type MetricsResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Metrics TokenMetrics `json:"metrics"`
}

type TokenMetrics struct {
	TotalTokens int                  `json:"total_tokens"`
	TotalCalls  int                  `json:"total_calls"`
	ModelUsage  []ModelUsage         `json:"model_usage"`
	ByPhase     map[string]PhaseStat `json:"by_phase,omitempty"`
}

// TimelineResponse is returned by GET /metrics/research/{id}/timeline
type TimelineResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Metrics TimelineMetrics `json:"metrics"`
}

type TimelineMetrics struct {
	Timeline   []TimelineEntry      `json:"timeline"`
	Summary    TimelineSummaryData  `json:"summary"`
	PhaseStats map[string]PhaseStat `json:"phase_stats"`
}

// TimelineSummaryData is the server-computed summary; used only when no entries are present.
type TimelineSummaryData struct {
	TotalCalls      int     `json:"total_calls"`
	TotalTokens     int     `json:"total_tokens"`
	AvgResponseTime float64 `json:"avg_response_time"`
	SuccessRate     float64 `json:"success_rate"`
}

// SearchResponse is returned by GET /metrics/research/{id}/search
type SearchResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Metrics SearchMetrics `json:"metrics"`
}

type SearchMetrics struct {
	TotalSearches   int          `json:"total_searches"`
	SuccessRate     float64      `json:"success_rate"`
	AvgResponseTime float64      `json:"avg_response_time"`
	EngineStats     []EngineStat `json:"engine_stats"`
	SearchCalls     []SearchCall `json:"search_calls"`
}

// MarkdownResponse is returned by GET /research/api/markdown/{id}. Content is a pointer so a
// missing body can be told apart from an empty report.
type MarkdownResponse struct {
	Status  string  `json:"status,omitempty"`
	Message string  `json:"message,omitempty"`
	Content *string `json:"content"`
}

// Ack is the acknowledgement returned by delete and clear operations.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

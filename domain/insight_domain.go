package domain

import (
	"time"
)

const (
	// InsightRetentionLimit caps stored insights: oldest rows beyond the
	// limit are deleted after each generation run (FIFO, not TTL).
	InsightRetentionLimit = 10

	InsightWindowDays   = 30
	InsightSampleLimit  = 100
	InsightPromptSample = 10
	PopularAreaLimit    = 5
)

var (
	MessageSuccessGenerateInsights = "insights generated successfully"
	MessageSuccessGetInsights      = "insights retrieved successfully"
	MessageFailedGenerateInsights  = "failed to generate insights"
	MessageFailedGetInsights       = "failed to retrieve insights"
)

type (
	Insight struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"created_at"`
	}

	// AreaStats accumulates per-area donation counts within the rolling
	// window. The area key is the first comma-delimited segment of the
	// pickup address; unparseable addresses land in "Unknown".
	AreaStats struct {
		Total    int `json:"total"`
		Accepted int `json:"accepted"`
	}
)

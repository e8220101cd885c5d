package models

import (
	"time"
)

// LabelNutrition holds nutrition facts read from a label, sodium in mg
type LabelNutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sodium   float64 `json:"sodium"`
}

// AnalysisResult is the outcome of analysing a product label
type AnalysisResult struct {
	Ingredients []string       `json:"ingredients"`
	Allergens   []string       `json:"allergens"`
	Nutrition   LabelNutrition `json:"nutrition"`
	Warnings    []string       `json:"warnings"`
	HealthScore float64        `json:"health_score"` // 0-10
	RawText     string         `json:"raw_text,omitempty"`
}

// AnalysisStatus represents the state of an analysis job
type AnalysisStatus string

const (
	AnalysisStatusPending   AnalysisStatus = "pending"
	AnalysisStatusDone      AnalysisStatus = "done"
	AnalysisStatusFailed    AnalysisStatus = "failed"
	AnalysisStatusCancelled AnalysisStatus = "cancelled"
)

// AnalysisJob is the client-visible state of an analysis request
type AnalysisJob struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"-"`
	Status       AnalysisStatus  `json:"status"`
	Source       string          `json:"source"`
	Result       *AnalysisResult `json:"result,omitempty"`
	Alternatives []Product       `json:"alternatives,omitempty"`
	Error        string          `json:"error,omitempty"`
	ImageKey     string          `json:"image_key,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

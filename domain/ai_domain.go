package domain

import (
	"errors"
	"time"
)

var (
	ErrGeminiProcessingFailed = errors.New("gemini processing failed")
	ErrEmptyInferenceResponse = errors.New("inference response contained no candidates")
)

type (
	// FoodAnalysis is the validated result of running a donation image
	// through the inference service. Analyze never fails the caller: a
	// broken or unparseable response produces DefaultFoodAnalysis().
	FoodAnalysis struct {
		QualityScore     float64    `json:"quality_score"`
		Category         string     `json:"category"`
		ExpiryPrediction *time.Time `json:"expiry_prediction,omitempty"`
		Description      string     `json:"description"`
		Suggestions      []string   `json:"suggestions"`
	}

	// BehaviorAnalysis is the inference result over an acceptor's
	// acceptance history. InferredPreferences is already filtered to the
	// closed FoodType vocabulary by the time it leaves the analyzer.
	BehaviorAnalysis struct {
		Skipped              bool     `json:"skipped"`
		Summary              string   `json:"summary"`
		InferredPreferences  []string `json:"inferred_preferences"`
		SuggestedActions     []string `json:"suggested_actions"`
		PersistedPreferences []string `json:"persisted_preferences"`
	}

	// AcceptanceHistoryEntry is the trimmed view of one acceptance sent
	// to the inference service, most recent first.
	AcceptanceHistoryEntry struct {
		Food     string    `json:"food"`
		Type     string    `json:"type"`
		Time     time.Time `json:"time"`
		Rating   *int      `json:"rating,omitempty"`
		Feedback string    `json:"feedback,omitempty"`
	}
)

// DefaultFoodAnalysis is the documented fallback when image analysis is
// unavailable or returns garbage; a donation must still be postable.
func DefaultFoodAnalysis() FoodAnalysis {
	return FoodAnalysis{
		QualityScore: 0.7,
		Category:     "Food",
		Description:  "Unable to analyze image",
		Suggestions:  []string{"Store properly", "Check expiry date"},
	}
}

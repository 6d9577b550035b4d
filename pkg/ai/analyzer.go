package ai

import (
	"FoodBridge-Backend/domain"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const foodAnalysisPrompt = `Analyze this food image and provide:
1. Quality score (0.0 to 1.0) - assess freshness and condition
2. Food category (e.g., "Rice Dish", "Bread", "Vegetables", "Meat", etc.)
3. Estimated expiry time in hours from now (if visible indicators suggest it)
4. Brief description of the food
5. Suggestions for storage or handling

IMPORTANT: Respond ONLY with a valid JSON object. Do not include any explanations, markdown formatting, or extra text.
Format:
{
  "quality_score": 0.85,
  "category": "Rice Dish",
  "expiry_hours": 24,
  "description": "Fresh biryani with visible rice grains and meat pieces",
  "suggestions": ["Store in refrigerator", "Consume within 24 hours", "Reheat before serving"]
}`

type (
	// ContentAnalyzer scores and categorizes donated food from an image.
	// Analysis is an enrichment, never a gate: every failure mode maps to
	// domain.DefaultFoodAnalysis() so the donation stays postable.
	ContentAnalyzer interface {
		AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) domain.FoodAnalysis
	}

	contentAnalyzer struct {
		client InferenceClient
	}
)

func NewContentAnalyzer(client InferenceClient) ContentAnalyzer {
	return &contentAnalyzer{client: client}
}

func (a *contentAnalyzer) AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) domain.FoodAnalysis {
	text, err := a.client.GenerateFromImage(ctx, foodAnalysisPrompt, image, mimeType)
	if err != nil {
		log.Warnf("food image analysis failed, using defaults: %v", err)
		return domain.DefaultFoodAnalysis()
	}

	jsonText, ok := ExtractJSONObject(text)
	if !ok {
		log.Warnf("food image analysis returned no JSON object, using defaults")
		return domain.DefaultFoodAnalysis()
	}

	var parsed struct {
		QualityScore *float64 `json:"quality_score"`
		Category     string   `json:"category"`
		ExpiryHours  *float64 `json:"expiry_hours"`
		Description  string   `json:"description"`
		Suggestions  []string `json:"suggestions"`
	}

	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		log.Warnf("food image analysis returned malformed JSON, using defaults: %v", err)
		return domain.DefaultFoodAnalysis()
	}

	// quality_score is the one field downstream ranking relies on; treat
	// its absence the same as a parse failure.
	if parsed.QualityScore == nil {
		return domain.DefaultFoodAnalysis()
	}

	result := domain.FoodAnalysis{
		QualityScore: clampScore(*parsed.QualityScore),
		Category:     parsed.Category,
		Description:  parsed.Description,
		Suggestions:  parsed.Suggestions,
	}

	if result.Category == "" {
		result.Category = "Food"
	}
	if result.Description == "" {
		result.Description = "Food item"
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}

	if parsed.ExpiryHours != nil && *parsed.ExpiryHours > 0 {
		expiry := time.Now().Add(time.Duration(*parsed.ExpiryHours * float64(time.Hour)))
		result.ExpiryPrediction = &expiry
	}

	return result
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

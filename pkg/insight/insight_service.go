package insight

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/ai"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const insightPromptTemplate = `Based on the following food donation data, generate 3-5 actionable insights for donors and acceptors in Karachi:

Recent Donations: %s
Acceptance Rates by Area: %s
Popular Areas: %s

Provide insights like:
- High demand patterns (time, location, food type)
- Acceptance rate trends
- Recommendations for donors
- Tips for better distribution

IMPORTANT: Respond ONLY with a valid JSON array of strings. Do not wrap it in markdown code blocks.
Example return: ["insight 1", "insight 2", ...]`

// fallbackInsights replaces the model output whenever the inference call
// fails or its response cannot be parsed into a string array.
var fallbackInsights = []string{
	"High demand for vegetarian food in Gulshan area",
	"Evening donations (6-8 PM) have 2x higher acceptance rates",
	"NGOs in DHA respond faster than other areas",
}

type (
	InsightService interface {
		GenerateInsights(ctx context.Context) ([]*domain.Insight, error)
		GetInsights(ctx context.Context) ([]*domain.Insight, error)
	}

	insightService struct {
		insightRepository InsightRepository
		client            ai.InferenceClient
	}

	// donationSample is the compact view of a donation included in the
	// inference prompt.
	donationSample struct {
		FoodName  string    `json:"food_name"`
		FoodType  string    `json:"food_type"`
		Quantity  string    `json:"quantity"`
		Area      string    `json:"area"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	}
)

func NewInsightService(insightRepository InsightRepository, client ai.InferenceClient) InsightService {
	return &insightService{
		insightRepository: insightRepository,
		client:            client,
	}
}

func (s *insightService) GenerateInsights(ctx context.Context) ([]*domain.Insight, error) {
	since := time.Now().AddDate(0, 0, -domain.InsightWindowDays)
	donations, err := s.insightRepository.GetDonationsSince(ctx, since, domain.InsightSampleLimit)
	if err != nil {
		return nil, err
	}

	areaStats := bucketByArea(donations)
	acceptanceRates := acceptanceRates(areaStats)
	popularAreas := popularAreas(areaStats, domain.PopularAreaLimit)

	messages := s.generate(ctx, donations, acceptanceRates, popularAreas)

	insights := make([]*entities.Insight, 0, len(messages))
	now := time.Now()
	for i, message := range messages {
		insights = append(insights, &entities.Insight{
			ID:      uuid.New(),
			Title:   fmt.Sprintf("Insight %d", i+1),
			Message: message,
			Timestamp: entities.Timestamp{
				CreatedAt: now,
				UpdatedAt: now,
			},
		})
	}

	if err := s.insightRepository.CreateInsights(ctx, insights); err != nil {
		return nil, err
	}

	if err := s.insightRepository.TrimInsights(ctx, domain.InsightRetentionLimit); err != nil {
		return nil, err
	}

	result := make([]*domain.Insight, 0, len(insights))
	for _, insight := range insights {
		result = append(result, toInsight(insight))
	}
	return result, nil
}

func (s *insightService) GetInsights(ctx context.Context) ([]*domain.Insight, error) {
	insights, err := s.insightRepository.GetInsights(ctx, domain.InsightRetentionLimit)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Insight, 0, len(insights))
	for _, insight := range insights {
		result = append(result, toInsight(insight))
	}
	return result, nil
}

func (s *insightService) generate(ctx context.Context, donations []*entities.Donation, rates map[string]float64, popular []string) []string {
	sample := make([]donationSample, 0, domain.InsightPromptSample)
	for i, donation := range donations {
		if i >= domain.InsightPromptSample {
			break
		}
		sample = append(sample, donationSample{
			FoodName:  donation.FoodName,
			FoodType:  donation.FoodType,
			Quantity:  donation.Quantity,
			Area:      areaOf(donation.PickupAddress),
			Status:    donation.Status,
			CreatedAt: donation.CreatedAt,
		})
	}

	sampleJSON, _ := json.Marshal(sample)
	ratesJSON, _ := json.Marshal(rates)
	popularJSON, _ := json.Marshal(popular)

	prompt := fmt.Sprintf(insightPromptTemplate, string(sampleJSON), string(ratesJSON), string(popularJSON))

	text, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		log.Warnf("insight generation inference failed, using fallback: %v", err)
		return fallbackInsights
	}

	jsonText, ok := ai.ExtractJSONArray(text)
	if !ok {
		log.Warnf("insight generation returned no JSON array, using fallback")
		return fallbackInsights
	}

	var messages []string
	if err := json.Unmarshal([]byte(jsonText), &messages); err != nil || len(messages) == 0 {
		log.Warnf("insight generation returned malformed array, using fallback")
		return fallbackInsights
	}

	if len(messages) > 5 {
		messages = messages[:5]
	}
	return messages
}

// areaOf extracts the area key: the first comma-delimited segment of the
// pickup address, or "Unknown" when nothing parseable is there.
func areaOf(pickupAddress string) string {
	area := strings.TrimSpace(strings.SplitN(pickupAddress, ",", 2)[0])
	if area == "" {
		return "Unknown"
	}
	return area
}

func bucketByArea(donations []*entities.Donation) map[string]*domain.AreaStats {
	stats := map[string]*domain.AreaStats{}
	for _, donation := range donations {
		area := areaOf(donation.PickupAddress)
		if stats[area] == nil {
			stats[area] = &domain.AreaStats{}
		}
		stats[area].Total++
		if donation.Status == domain.DonationStatusAccepted || donation.Status == domain.DonationStatusCompleted {
			stats[area].Accepted++
		}
	}
	return stats
}

func acceptanceRates(stats map[string]*domain.AreaStats) map[string]float64 {
	rates := map[string]float64{}
	for area, s := range stats {
		if s.Total > 0 {
			rates[area] = float64(s.Accepted) / float64(s.Total)
		} else {
			rates[area] = 0
		}
	}
	return rates
}

func popularAreas(stats map[string]*domain.AreaStats, limit int) []string {
	areas := make([]string, 0, len(stats))
	for area := range stats {
		areas = append(areas, area)
	}

	sort.Slice(areas, func(i, j int) bool {
		if stats[areas[i]].Total != stats[areas[j]].Total {
			return stats[areas[i]].Total > stats[areas[j]].Total
		}
		return areas[i] < areas[j]
	})

	if len(areas) > limit {
		areas = areas[:limit]
	}
	return areas
}

func toInsight(insight *entities.Insight) *domain.Insight {
	return &domain.Insight{
		ID:        insight.ID.String(),
		Title:     insight.Title,
		Message:   insight.Message,
		CreatedAt: insight.CreatedAt,
	}
}

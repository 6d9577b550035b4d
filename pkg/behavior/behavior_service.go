package behavior

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/pkg/ai"
	"FoodBridge-Backend/pkg/donation"
	"FoodBridge-Backend/pkg/user"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// HistoryLimit caps how many recent acceptances are sent for analysis.
const HistoryLimit = 20

const behaviorPromptTemplate = `Analyze this user's donation acceptance history and infer their preferences and behavior patterns.

User History: %s

Provide:
1. A brief summary of their behavior (e.g., "Prefers vegetarian food, mostly active on weekends").
2. Inferred food preferences (list of categories like "vegetarian", "non-vegetarian", "vegan", "mixed").
3. Suggested actions or notifications (e.g., "Notify for large veg donations").

IMPORTANT: Respond ONLY with a valid JSON object. Do not include any explanations, markdown formatting, or extra text.
Format:
{
  "summary": "User prefers vegetarian food...",
  "inferred_preferences": ["vegetarian", "vegan"],
  "suggested_actions": ["Notify for veg food", "Suggest weekend pickups"]
}`

type (
	// BehaviorService infers an acceptor's food-type preferences from
	// their acceptance history. Inferred values pass through the closed
	// FoodType vocabulary before touching the profile; an empty filtered
	// set never overwrites previously stored preferences.
	BehaviorService interface {
		RefreshPreferences(ctx context.Context, acceptorID string) (*domain.BehaviorAnalysis, error)
	}

	behaviorService struct {
		donationRepository donation.DonationRepository
		userRepository     user.UserRepository
		client             ai.InferenceClient
	}
)

func NewBehaviorService(donationRepository donation.DonationRepository, userRepository user.UserRepository, client ai.InferenceClient) BehaviorService {
	return &behaviorService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		client:             client,
	}
}

func (s *behaviorService) RefreshPreferences(ctx context.Context, acceptorID string) (*domain.BehaviorAnalysis, error) {
	acceptor, err := s.userRepository.GetUserByID(ctx, acceptorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if acceptor.Role != domain.RoleAcceptor {
		return nil, domain.ErrNotAnAcceptor
	}

	acceptances, err := s.donationRepository.GetAcceptanceHistory(ctx, acceptorID, HistoryLimit)
	if err != nil {
		return nil, err
	}

	// No history means nothing to infer; skip the inference call entirely.
	if len(acceptances) == 0 {
		return &domain.BehaviorAnalysis{
			Skipped: true,
			Summary: "No acceptance history to analyze",
		}, nil
	}

	history := make([]domain.AcceptanceHistoryEntry, 0, len(acceptances))
	for _, acceptance := range acceptances {
		entry := domain.AcceptanceHistoryEntry{
			Time:     acceptance.AcceptedAt,
			Rating:   acceptance.Rating,
			Feedback: acceptance.Feedback,
		}
		if acceptance.Donation != nil {
			entry.Food = acceptance.Donation.FoodName
			entry.Type = acceptance.Donation.FoodType
		}
		history = append(history, entry)
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	text, err := s.client.GenerateText(ctx, fmt.Sprintf(behaviorPromptTemplate, string(historyJSON)))
	if err != nil {
		log.Warnf("behavior analysis inference failed for %s: %v", acceptorID, err)
		return &domain.BehaviorAnalysis{
			Skipped: true,
			Summary: "Analysis unavailable",
		}, nil
	}

	jsonText, ok := ai.ExtractJSONObject(text)
	if !ok {
		log.Warnf("behavior analysis returned no JSON object for %s", acceptorID)
		return &domain.BehaviorAnalysis{
			Skipped: true,
			Summary: "Analysis unavailable",
		}, nil
	}

	var parsed struct {
		Summary             string   `json:"summary"`
		InferredPreferences []string `json:"inferred_preferences"`
		SuggestedActions    []string `json:"suggested_actions"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		log.Warnf("behavior analysis returned malformed JSON for %s: %v", acceptorID, err)
		return &domain.BehaviorAnalysis{
			Skipped: true,
			Summary: "Analysis unavailable",
		}, nil
	}

	filtered := filterToVocabulary(parsed.InferredPreferences)

	result := &domain.BehaviorAnalysis{
		Summary:             parsed.Summary,
		InferredPreferences: filtered,
		SuggestedActions:    parsed.SuggestedActions,
	}
	if result.SuggestedActions == nil {
		result.SuggestedActions = []string{}
	}

	// Never overwrite stored preferences with an empty set: a noisy
	// response must not erase what earlier runs inferred.
	if len(filtered) > 0 {
		if err := s.userRepository.UpdatePreferredFoodTypes(ctx, acceptorID, strings.Join(filtered, ",")); err != nil {
			return nil, err
		}
		result.PersistedPreferences = filtered
	}

	return result, nil
}

// filterToVocabulary keeps only case-normalized values from the closed
// FoodType vocabulary, deduplicated, preserving response order.
func filterToVocabulary(preferences []string) []string {
	seen := map[string]bool{}
	filtered := make([]string, 0, len(preferences))
	for _, preference := range preferences {
		normalized := strings.ToLower(strings.TrimSpace(preference))
		if !domain.ValidFoodType(normalized) || seen[normalized] {
			continue
		}
		seen[normalized] = true
		filtered = append(filtered, normalized)
	}
	return filtered
}

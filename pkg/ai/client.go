package ai

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// InferenceClient is the boundary to the external generative
	// inference service. Responses are free text; callers are expected
	// to treat them as untrusted and parse defensively.
	InferenceClient interface {
		GenerateText(ctx context.Context, prompt string) (string, error)
		GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	}

	geminiClient struct {
		apiKey     string
		model      string
		httpClient *http.Client
	}
)

func NewGeminiClient() InferenceClient {
	return &geminiClient{
		apiKey:     utils.GetConfig("GEMINI_API_KEY"),
		model:      utils.GetConfig("GEMINI_MODEL"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	parts := []map[string]interface{}{
		{"text": prompt},
	}
	return c.generate(ctx, parts, 0.7)
}

func (c *geminiClient) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []map[string]interface{}{
		{"text": prompt},
		{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      base64.StdEncoding.EncodeToString(image),
			},
		},
	}
	return c.generate(ctx, parts, 0.1)
}

func (c *geminiClient) generate(ctx context.Context, parts []map[string]interface{}, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if c.model == "" {
		return "", fmt.Errorf("GEMINI_MODEL environment variable not set")
	}

	geminiURL := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		c.model, c.apiKey,
	)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature": temperature,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %s - %s", domain.ErrGeminiProcessingFailed, resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrEmptyInferenceResponse
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

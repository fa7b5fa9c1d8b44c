package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps/listings"
	"github.com/seatswap/seatswap-backend/internal/apps/tickets"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidRule     = errors.New("rule type must be auto_reprice or auto_relist")
	ErrRuleNotFound    = errors.New("automation rule not found")
	ErrBadPrediction   = errors.New("listing_id or face_value and event_date are required")
)

const pricePrompt = `You are a ticket resale pricing assistant. Given seat and event details,
suggest a fair resale price. Respond with ONLY a JSON object:
{"suggested_price": <number>, "confidence": <0..1>, "reasoning": "..."}`

const chatPrompt = `You are SeatSwap's assistant. You help season ticket holders price and
manage their resale listings. Keep answers short and practical.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type predictionResult struct {
	SuggestedPrice float64 `json:"suggested_price"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

type AIService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAIService(db *gorm.DB, cfg *config.Config) *AIService {
	return &AIService{db: db, cfg: cfg}
}

// PredictPrice suggests a resale price for a listing or a raw seat spec.
// It tries the configured providers first and falls back to a
// deterministic heuristic when none is available.
func (s *AIService) PredictPrice(userID uuid.UUID, req PredictionRequest) (*PricePrediction, error) {
	faceValue := req.FaceValue
	section := req.Section
	eventDate := req.EventDate

	if req.ListingID != nil {
		var listing listings.Listing
		err := s.db.Where("id = ? AND user_id = ?", *req.ListingID, userID).First(&listing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrListingNotFound
			}
			return nil, fmt.Errorf("listing lookup failed: %w", err)
		}
		eventDate = listing.EventDate

		var ticket tickets.SeasonTicket
		if err := s.db.First(&ticket, "id = ?", listing.TicketID).Error; err == nil {
			if ticket.GamesTotal > 0 {
				faceValue = ticket.FaceValue / float64(ticket.GamesTotal)
			} else {
				faceValue = ticket.FaceValue
			}
			section = ticket.Section
		}
	}

	if faceValue <= 0 || eventDate.IsZero() {
		return nil, ErrBadPrediction
	}

	result, source, err := s.predictWithProvider(faceValue, section, eventDate)
	if err != nil {
		slog.Warn("AI prediction unavailable, using heuristic", "error", err.Error())
		h := heuristicPrediction(faceValue, eventDate)
		result = &h
		source = SourceHeuristic
	}

	factors, _ := json.Marshal(map[string]any{
		"face_value":    faceValue,
		"section":       section,
		"days_to_event": int(time.Until(eventDate).Hours() / 24),
		"reasoning":     result.Reasoning,
	})

	prediction := PricePrediction{
		ID:             uuid.New(),
		UserID:         userID,
		ListingID:      req.ListingID,
		SuggestedPrice: result.SuggestedPrice,
		Confidence:     result.Confidence,
		Source:         source,
		Factors:        datatypes.JSON(factors),
	}

	if err := s.db.Create(&prediction).Error; err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}
	return &prediction, nil
}

func (s *AIService) predictWithProvider(faceValue float64, section string, eventDate time.Time) (*predictionResult, string, error) {
	user := fmt.Sprintf("Face value per game: %.2f. Section: %s. Event date: %s. Suggest a resale price.",
		faceValue, section, eventDate.Format("2006-01-02"))

	if s.cfg.GLMAPIKey != "" {
		content, err := s.chatCompletion(s.cfg.GLMAPIURL, s.cfg.GLMAPIKey, s.cfg.GLMModel, pricePrompt, user)
		if err == nil {
			if result, perr := parsePrediction(content); perr == nil {
				return result, SourceGLM, nil
			}
		} else {
			slog.Warn("GLM prediction failed", "error", err.Error())
		}
	}

	if s.cfg.DeepSeekAPIKey != "" {
		content, err := s.chatCompletion(s.cfg.DeepSeekAPIURL, s.cfg.DeepSeekAPIKey, s.cfg.DeepSeekModel, pricePrompt, user)
		if err == nil {
			if result, perr := parsePrediction(content); perr == nil {
				return result, SourceDeepSeek, nil
			}
		} else {
			slog.Warn("DeepSeek prediction failed", "error", err.Error())
		}
	}

	return nil, "", errors.New("no AI provider available")
}

// heuristicPrediction prices off the per-game face value with a
// days-to-event multiplier: demand builds toward the event, then unsold
// seats get discounted in the final days.
func heuristicPrediction(faceValue float64, eventDate time.Time) predictionResult {
	days := int(time.Until(eventDate).Hours() / 24)

	factor := 1.0
	switch {
	case days >= 60:
		factor = 0.85
	case days >= 30:
		factor = 0.95
	case days >= 14:
		factor = 1.05
	case days >= 7:
		factor = 1.10
	case days >= 2:
		factor = 0.95
	default:
		factor = 0.70
	}

	return predictionResult{
		SuggestedPrice: round2(faceValue * factor),
		Confidence:     0.4,
		Reasoning:      fmt.Sprintf("face value adjusted by %.2f for %d days to event", factor, days),
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func parsePrediction(content string) (*predictionResult, error) {
	content = strings.TrimSpace(content)
	// Providers sometimes wrap the JSON in a markdown fence.
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}

	var result predictionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}
	if result.SuggestedPrice <= 0 {
		return nil, errors.New("provider returned no price")
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		result.Confidence = 0.5
	}
	return &result, nil
}

// Chat answers a free-form question, falling back to a canned reply when
// no provider is configured.
func (s *AIService) Chat(req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("message is required")
	}

	if s.cfg.GLMAPIKey != "" {
		if content, err := s.chatCompletion(s.cfg.GLMAPIURL, s.cfg.GLMAPIKey, s.cfg.GLMModel, chatPrompt, message); err == nil {
			return &ChatResponse{Reply: content, Source: SourceGLM}, nil
		}
	}
	if s.cfg.DeepSeekAPIKey != "" {
		if content, err := s.chatCompletion(s.cfg.DeepSeekAPIURL, s.cfg.DeepSeekAPIKey, s.cfg.DeepSeekModel, chatPrompt, message); err == nil {
			return &ChatResponse{Reply: content, Source: SourceDeepSeek}, nil
		}
	}

	return &ChatResponse{
		Reply:  "The pricing assistant is not available right now. Try the price prediction endpoint for a quick estimate.",
		Source: SourceHeuristic,
	}, nil
}

func (s *AIService) chatCompletion(apiURL, apiKey, model, system, user string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	timeout := s.cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// --- automation rules (stored lifecycle only; execution is future work) ---

func (s *AIService) CreateRule(userID uuid.UUID, req CreateRuleRequest) (*AutomationRule, error) {
	if req.Type != RuleAutoReprice && req.Type != RuleAutoRelist {
		return nil, ErrInvalidRule
	}

	var listing listings.Listing
	err := s.db.Where("id = ? AND user_id = ?", req.ListingID, userID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing lookup failed: %w", err)
	}

	params, _ := json.Marshal(req.Params)
	rule := AutomationRule{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: req.ListingID,
		Type:      req.Type,
		Params:    datatypes.JSON(params),
		Enabled:   true,
	}

	if err := s.db.Create(&rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create automation rule: %w", err)
	}
	return &rule, nil
}

func (s *AIService) ListRules(userID uuid.UUID) ([]AutomationRule, error) {
	var rules []AutomationRule
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("rule list failed: %w", err)
	}
	return rules, nil
}

func (s *AIService) ToggleRule(userID, ruleID uuid.UUID) (*AutomationRule, error) {
	var rule AutomationRule
	err := s.db.Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("rule lookup failed: %w", err)
	}

	rule.Enabled = !rule.Enabled
	if err := s.db.Save(&rule).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle rule: %w", err)
	}
	return &rule, nil
}

func (s *AIService) DeleteRule(userID, ruleID uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", ruleID, userID).Delete(&AutomationRule{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

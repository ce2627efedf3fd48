package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"newstrack/internal/config"
	"newstrack/internal/logger"
	"newstrack/internal/models"
)

const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 500
	analysisTimeout     = 120 * time.Second
)

// Engine turns a news item into a structured impact analysis by
// prompting a chat model and repairing whatever JSON comes back.
type Engine struct {
	chatModel model.BaseChatModel
}

// NewEngine builds an Engine on the provider named in the config.
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("analyzer: missing API key for provider %s", cfg.LLMProvider)
	}

	var cm model.BaseChatModel
	var err error

	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		temp := float32(analysisTemperature)
		maxTokens := analysisMaxTokens
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			BaseURL:     cfg.LLMBaseURL,
			Temperature: &temp,
			MaxTokens:   &maxTokens,
		})
	default:
		cm, err = deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			BaseURL:     cfg.LLMBaseURL,
			Temperature: analysisTemperature,
			MaxTokens:   analysisMaxTokens,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("analyzer: create chat model: %w", err)
	}

	return &Engine{chatModel: cm}, nil
}

// NewEngineWithModel is the test seam.
func NewEngineWithModel(cm model.BaseChatModel) *Engine {
	return &Engine{chatModel: cm}
}

// Analyze prompts the model with the item's content and parses the
// response. It never returns an error: model failures degrade to the
// API-failed placeholder and unparseable output degrades to the
// parse-failed placeholder, so one bad item cannot stop a batch.
func (e *Engine) Analyze(ctx context.Context, item models.NewsItem) models.AnalysisResult {
	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	messages := []*schema.Message{
		schema.SystemMessage(systemPersona),
		schema.UserMessage(BuildPrompt(item.Content)),
	}

	resp, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		logger.Log.WithField("title", item.Title).Warnf("模型调用失败: %v", err)
		return models.APIFailed()
	}

	result, ok := parseResponse(resp.Content)
	if !ok {
		logger.Log.WithField("title", item.Title).Warn("模型输出无法解析为JSON")
		return models.ParseFailed()
	}
	return result
}

// parseResponse extracts the outermost JSON object from the raw model
// output and decodes it, running the repair cascade when the direct
// parse fails.
func parseResponse(raw string) (models.AnalysisResult, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.AnalysisResult{}, false
	}

	candidate := raw[start : end+1]

	data, ok := Fix(candidate)
	if !ok {
		return models.AnalysisResult{}, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.AnalysisResult{}, false
	}
	if result.Summary == "" {
		return models.AnalysisResult{}, false
	}
	if result.Analysis == nil {
		result.Analysis = []models.StockImpact{}
	}
	return result, true
}

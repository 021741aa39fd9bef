// internal/estimator/langchain.go
package estimator

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"mcp-menu-planner/internal/exchange"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// LangChainClient talks to any langchaingo model.
type LangChainClient struct {
	llm llms.Model
}

// NewOpenRouterClient builds a client for OpenRouter's OpenAI-compatible API.
func NewOpenRouterClient(apiKey, model string) (*LangChainClient, error) {
	if model == "" {
		model = defaultModel
	}
	llm, err := openai.New(
		openai.WithBaseURL(openRouterBaseURL),
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}
	return NewLangChainClient(llm), nil
}

func NewLangChainClient(llm llms.Model) *LangChainClient {
	return &LangChainClient{llm: llm}
}

func (c *LangChainClient) EstimateNutrition(ctx context.Context, foodName string) (*FoodEstimate, error) {
	text, err := c.generate(ctx, estimatePrompt(foodName))
	if err != nil {
		return nil, err
	}
	return ParseEstimate(foodName, text), nil
}

func (c *LangChainClient) SuggestSubstitutes(ctx context.Context, foodName string, category exchange.Category) ([]Substitute, error) {
	text, err := c.generate(ctx, substitutesPrompt(foodName, category))
	if err != nil {
		return nil, err
	}
	return ParseSubstitutes(text), nil
}

func (c *LangChainClient) generate(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, systemPrompt+"\n\n"+prompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(1000),
	)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	return text, nil
}

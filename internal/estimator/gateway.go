// internal/estimator/gateway.go
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"mcp-menu-planner/internal/exchange"
)

const (
	defaultProxyURL = "http://mcp-compose-http-proxy:9876"
	defaultModel    = "anthropic/claude-3.5-sonnet"
)

type GatewayConfig struct {
	ProxyURL string
	APIKey   string
	Model    string
}

// GatewayConfigFromEnv reads MCP_PROXY_URL, MCP_PROXY_API_KEY and
// OPENROUTER_MODEL.
func GatewayConfigFromEnv() GatewayConfig {
	cfg := GatewayConfig{
		ProxyURL: os.Getenv("MCP_PROXY_URL"),
		APIKey:   os.Getenv("MCP_PROXY_API_KEY"),
		Model:    os.Getenv("OPENROUTER_MODEL"),
	}
	if cfg.ProxyURL == "" {
		cfg.ProxyURL = defaultProxyURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

// GatewayClient asks an OpenRouter gateway tool behind an MCP proxy.
type GatewayClient struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	model      string
}

func NewGatewayClient(cfg GatewayConfig) *GatewayClient {
	if cfg.ProxyURL == "" {
		cfg.ProxyURL = defaultProxyURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &GatewayClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		proxyURL: cfg.ProxyURL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
	}
}

func (g *GatewayClient) EstimateNutrition(ctx context.Context, foodName string) (*FoodEstimate, error) {
	text, err := g.complete(ctx, estimatePrompt(foodName))
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}
	return ParseEstimate(foodName, text), nil
}

func (g *GatewayClient) SuggestSubstitutes(ctx context.Context, foodName string, category exchange.Category) ([]Substitute, error) {
	text, err := g.complete(ctx, substitutesPrompt(foodName, category))
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}
	return ParseSubstitutes(text), nil
}

func (g *GatewayClient) complete(ctx context.Context, userPrompt string) (string, error) {
	completionRequest := map[string]interface{}{
		"model":         g.model,
		"system_prompt": systemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": userPrompt,
			},
		},
		"max_tokens":  1000,
		"temperature": 0.1,
	}

	out, err := g.callGateway(ctx, "create_completion", completionRequest)
	if err != nil {
		return "", err
	}

	// The gateway wraps the completion as {"content": "..."}.
	var completion struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(out), &completion); err == nil && completion.Content != "" {
		return completion.Content, nil
	}
	return out, nil
}

func (g *GatewayClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", g.proxyURL)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var rpc struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if rpc.Error != nil {
		return "", fmt.Errorf("gateway error %d: %s", rpc.Error.Code, rpc.Error.Message)
	}
	if len(rpc.Result.Content) == 0 || rpc.Result.Content[0].Text == "" {
		return "", fmt.Errorf("unexpected response format")
	}
	return rpc.Result.Content[0].Text, nil
}

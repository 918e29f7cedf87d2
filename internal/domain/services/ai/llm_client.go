package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cybershield/pkg/logger"
)

// LLMClient provides access to large language model APIs for
// analysis augmentation. All calls are single attempt with a hard
// timeout; callers treat any error as a degraded (heuristic-only) result.
type LLMClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     Config
}

// Config holds LLM client configuration
type Config struct {
	Provider     string // claude, openai
	ClaudeAPIKey string
	OpenAIAPIKey string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg Config, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2 // low temperature for factual analysis
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-3-5-sonnet-20241022"
		} else {
			cfg.Model = "gpt-4-turbo"
		}
	}

	return &LLMClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("llm-client"),
		config: cfg,
	}
}

// Enabled reports whether a provider credential is configured
func (c *LLMClient) Enabled() bool {
	if c == nil {
		return false
	}
	switch c.config.Provider {
	case "claude":
		return c.config.ClaudeAPIKey != ""
	case "openai":
		return c.config.OpenAIAPIKey != ""
	}
	return false
}

// Model returns the configured model name
func (c *LLMClient) Model() string {
	return c.config.Model
}

// URLVerdict is the parsed LLM assessment of a URL
type URLVerdict struct {
	RiskScore int      `json:"risk_score"`
	Verdict   string   `json:"verdict"`
	Summary   string   `json:"summary"`
	RedFlags  []string `json:"red_flags"`
	ModelUsed string   `json:"-"`
}

// MessageVerdict is the parsed LLM assessment of a message
type MessageVerdict struct {
	IsScam     bool     `json:"is_scam"`
	Confidence int      `json:"confidence"`
	Summary    string   `json:"summary"`
	RedFlags   []string `json:"red_flags"`
	ModelUsed  string   `json:"-"`
}

const urlSystemPrompt = `You are a URL threat analyst. Assess the URL the user provides for
phishing, typosquatting, and malicious hosting signals.

Respond ONLY in valid JSON with this structure:
{
  "risk_score": 0-100,
  "verdict": "malicious|suspicious|legitimate",
  "summary": "one or two sentences",
  "red_flags": ["list of concrete signals"]
}`

const messageSystemPrompt = `You are a scam detection analyst. Assess the message the user provides
for phishing, smishing, and fraud signals: urgency tactics, prize lures,
account threats, requests for credentials or money.

Respond ONLY in valid JSON with this structure:
{
  "is_scam": boolean,
  "confidence": 0-100,
  "summary": "one or two sentences",
  "red_flags": ["list of concrete signals"]
}`

// AssessURL asks the LLM for a second opinion on a URL
func (c *LLMClient) AssessURL(ctx context.Context, rawURL string) (*URLVerdict, error) {
	prompt := fmt.Sprintf("Assess this URL for threats:\n\n%s\n\nRespond in JSON.", rawURL)

	content, err := c.complete(ctx, urlSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	verdict, err := parseURLVerdict(content)
	if err != nil {
		return nil, err
	}
	verdict.ModelUsed = c.config.Model
	return verdict, nil
}

// AssessMessage asks the LLM for a second opinion on message text
func (c *LLMClient) AssessMessage(ctx context.Context, text string) (*MessageVerdict, error) {
	prompt := fmt.Sprintf("Assess this message for scam or fraud:\n\n```\n%s\n```\n\nRespond in JSON.", text)

	content, err := c.complete(ctx, messageSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	verdict, err := parseMessageVerdict(content)
	if err != nil {
		return nil, err
	}
	verdict.ModelUsed = c.config.Model
	return verdict, nil
}

// complete routes a single prompt to the configured provider
func (c *LLMClient) complete(ctx context.Context, system, user string) (string, error) {
	switch c.config.Provider {
	case "claude":
		return c.callClaude(ctx, system, user)
	case "openai":
		return c.callOpenAI(ctx, system, user)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.config.Provider)
	}
}

// callClaude makes a request to the Claude messages API
func (c *LLMClient) callClaude(ctx context.Context, system, user string) (string, error) {
	url := "https://api.anthropic.com/v1/messages"

	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"system":      system,
		"messages": []map[string]any{
			{"role": "user", "content": user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.ClaudeAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Claude API error %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", err
	}

	var content string
	for _, part := range claudeResp.Content {
		if part.Type == "text" {
			content += part.Text
		}
	}
	return content, nil
}

// callOpenAI makes a request to the OpenAI chat completions API
func (c *LLMClient) callOpenAI(ctx context.Context, system, user string) (string, error) {
	url := "https://api.openai.com/v1/chat/completions"

	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.OpenAIAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return openAIResp.Choices[0].Message.Content, nil
}

// extractJSON strips markdown fences and trims to the outermost JSON object
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}
	return content
}

// parseURLVerdict parses and validates a URL verdict from LLM output
func parseURLVerdict(content string) (*URLVerdict, error) {
	var verdict URLVerdict
	if err := json.Unmarshal([]byte(extractJSON(content)), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if verdict.RiskScore < 0 {
		verdict.RiskScore = 0
	}
	if verdict.RiskScore > 100 {
		verdict.RiskScore = 100
	}
	switch verdict.Verdict {
	case "malicious", "suspicious", "legitimate":
	default:
		verdict.Verdict = "suspicious"
	}
	return &verdict, nil
}

// parseMessageVerdict parses and validates a message verdict from LLM output
func parseMessageVerdict(content string) (*MessageVerdict, error) {
	var verdict MessageVerdict
	if err := json.Unmarshal([]byte(extractJSON(content)), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if verdict.Confidence < 0 {
		verdict.Confidence = 0
	}
	if verdict.Confidence > 100 {
		verdict.Confidence = 100
	}
	return &verdict, nil
}

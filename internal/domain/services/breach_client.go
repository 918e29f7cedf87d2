package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cybershield/internal/domain/models"
	"cybershield/pkg/logger"
)

// BreachClient checks passwords against a k-anonymity range endpoint.
// Only the first 5 hex characters of the SHA-1 ever leave the process.
// The check is strictly fail-open: any failure reports not-breached.
type BreachClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// BreachConfig holds breach client configuration
type BreachConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewBreachClient creates a breach lookup client
func NewBreachClient(cfg BreachConfig, log *logger.Logger) *BreachClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.pwnedpasswords.com"
	}

	return &BreachClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithComponent("breach-client"),
	}
}

// CheckBreach reports whether the password appears in known breach
// corpora. Failures degrade to a not-breached result; no error crosses
// this boundary.
func (c *BreachClient) CheckBreach(ctx context.Context, password string) models.BreachResult {
	result := models.BreachResult{CheckedAt: time.Now()}

	hash := sha1.Sum([]byte(password))
	hashStr := strings.ToUpper(hex.EncodeToString(hash[:]))
	prefix := hashStr[:5]
	suffix := hashStr[5:]

	body, err := c.queryRange(ctx, prefix)
	if err != nil {
		c.logger.Warn().Err(err).Msg("breach range lookup failed, reporting not breached")
		result.Degraded = true
		return result
	}

	// Suffix comparison is case-sensitive: both sides are uppercase hex.
	for _, line := range strings.Split(body, "\r\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		if parts[0] == suffix {
			count, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			result.Breached = true
			result.Count = count
			break
		}
	}

	c.logger.Debug().
		Bool("breached", result.Breached).
		Int("count", result.Count).
		Msg("password breach check completed")

	return result
}

// queryRange fetches the SUFFIX:COUNT list for a hash prefix
func (c *BreachClient) queryRange(ctx context.Context, prefix string) (string, error) {
	reqURL := fmt.Sprintf("%s/range/%s", c.baseURL, prefix)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "CyberShield-Analyzer")
	req.Header.Set("Add-Padding", "true")
	if c.apiKey != "" {
		req.Header.Set("hibp-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("range API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

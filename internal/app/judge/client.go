package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"codearena/internal/app/grader"
	"codearena/internal/domain/model"
	"codearena/internal/platform/config"
)

// ErrExecutionTimeout is returned when the judge does not reach a settled
// state within the bounded number of polling attempts.
var ErrExecutionTimeout = errors.New("judge execution timed out")

// defaultLanguageID mirrors the judge's fallback when an unknown language
// slips past intake validation.
const defaultLanguageID = 63 // javascript

// Client talks to a Judge0-compatible execution API: one POST to create a
// run, then bounded fixed-interval polling of the returned token.
type Client struct {
	baseURL      string
	apiKey       string
	apiHost      string
	pollAttempts int
	pollInterval time.Duration
	httpClient   *http.Client
}

func NewClient(baseURL, apiKey, apiHost string, pollAttempts int, pollInterval, httpTimeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		apiHost:      apiHost,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: httpTimeout},
	}
}

func NewClientFromConfig() *Client {
	cfg := config.AppConfig
	return NewClient(cfg.JudgeBaseURL, cfg.JudgeAPIKey, cfg.JudgeAPIHost,
		cfg.JudgePollAttempts, cfg.JudgePollInterval, cfg.JudgeHTTPTimeout)
}

type submitRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

type submitResponse struct {
	Token string `json:"token"`
}

type judgeStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type judgeResult struct {
	Status judgeStatus `json:"status"`
	Stdout *string     `json:"stdout"`
	Stderr *string     `json:"stderr"`
	Time   *string     `json:"time"`
	Memory *float64    `json:"memory"`
}

// Run executes one program against one stdin and returns its captured
// output. Implements grader.Runner.
func (c *Client) Run(ctx context.Context, language, code, stdin string) (grader.RunResult, error) {
	languageID, ok := model.JudgeLanguageID(language)
	if !ok {
		languageID = defaultLanguageID
	}

	token, err := c.submit(ctx, languageID, code, stdin)
	if err != nil {
		return grader.RunResult{}, err
	}

	result, err := c.pollResult(ctx, token)
	if err != nil {
		return grader.RunResult{}, err
	}

	// The judge leaves stdout empty on compile and runtime errors; the
	// diagnostic stream is what the participant gets to see instead.
	output := ""
	if result.Stdout != nil {
		output = *result.Stdout
	}
	if output == "" && result.Stderr != nil {
		output = *result.Stderr
	}

	return grader.RunResult{
		Output: output,
		Status: result.Status.Description,
	}, nil
}

func (c *Client) submit(ctx context.Context, languageID int, code, stdin string) (string, error) {
	body, err := json.Marshal(submitRequest{
		LanguageID: languageID,
		SourceCode: code,
		Stdin:      stdin,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal judge submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build judge submit request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("judge submit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("judge submit returned status %d", resp.StatusCode)
	}

	var submitResp submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return "", fmt.Errorf("failed to decode judge submit response: %w", err)
	}
	if submitResp.Token == "" {
		return "", errors.New("judge submit response missing token")
	}
	return submitResp.Token, nil
}

func (c *Client) pollResult(ctx context.Context, token string) (*judgeResult, error) {
	// Status IDs 1 (In Queue) and 2 (Processing) are non-settled; anything
	// above is a terminal judge state.
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		result, err := c.fetchResult(ctx, token)
		if err != nil {
			return nil, err
		}
		if result.Status.ID > 2 {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return nil, ErrExecutionTimeout
}

func (c *Client) fetchResult(ctx context.Context, token string) (*judgeResult, error) {
	url := fmt.Sprintf("%s/submissions/%s?base64_encoded=false", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build judge result request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge result request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge result returned status %d", resp.StatusCode)
	}

	var result judgeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode judge result: %w", err)
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}

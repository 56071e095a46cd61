package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"aim-achiever/internal/config"
)

// Generator is the narrow oracle contract the rest of the system depends on.
// The oracle's output is free text and must be defensively parsed by callers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	url     string
	model   string
	apiKey  string
	timeout time.Duration
}

func NewClient(cfg config.GeminiConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// DoGenerate performs the HTTP call (exported var for testing)
var DoGenerate = func(ctx context.Context, c *Client, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, _ := json.Marshal(reqBody)

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.url, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	client := http.Client{Timeout: c.timeout}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode > 299 {
		b, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("gemini returned status %d: %s", res.StatusCode, string(b))
	}

	var respStruct struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&respStruct); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(respStruct.Candidates) == 0 || len(respStruct.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	return respStruct.Candidates[0].Content.Parts[0].Text, nil
}

// Generate sends a prompt and returns the raw text response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return DoGenerate(ctx, c, prompt)
}

// Package recipe provides the client for the Snap2Serve backend's recipe
// generation endpoint, the operation the gesture gate protects.
package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one generation call. Recipe generation goes through
// an LLM upstream, so it is generous.
const DefaultTimeout = 60 * time.Second

// Request is the payload sent to the backend.
type Request struct {
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings,omitempty"`
}

// Recipe is a generated recipe returned by the backend.
type Recipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Nutrition   any      `json:"nutrition,omitempty"`
}

// Client calls the Snap2Serve backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Generate requests a recipe for the given ingredients.
func (c *Client) Generate(ctx context.Context, req Request) (*Recipe, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/agent/recipe", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("recipe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("recipe backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var recipe Recipe
	if err := json.NewDecoder(resp.Body).Decode(&recipe); err != nil {
		return nil, fmt.Errorf("parse recipe response: %w", err)
	}

	return &recipe, nil
}

// Package remote calls an OpenAI-compatible embeddings endpoint for the
// multilingual sentence-embedding model.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is an HTTP embeddings client implementing vectorindex.Embedder.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client

	dim int
}

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Dimension returns the vector size observed on the first Encode call,
// 0 before that.
func (c *Client) Dimension() int { return c.dim }

// Encode embeds texts with one request.
func (c *Client) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if c.BaseURL == "" || c.Model == "" {
		return nil, fmt.Errorf("remote: base URL and model required")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingsRequest{Input: texts, Model: c.Model})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote: embeddings request failed: %s", resp.Status)
	}

	var payload embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("remote: %s", payload.Error.Message)
	}
	if len(payload.Data) != len(texts) {
		return nil, fmt.Errorf("remote: got %d embeddings for %d texts", len(payload.Data), len(texts))
	}

	out := make([][]float64, len(payload.Data))
	for i, d := range payload.Data {
		out[i] = d.Embedding
	}
	if len(out) > 0 && c.dim == 0 {
		c.dim = len(out[0])
	}
	return out, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

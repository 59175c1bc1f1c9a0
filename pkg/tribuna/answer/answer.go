// Package answer turns a query and a retrieved context into a grounded
// response via an OpenAI-compatible chat completion endpoint.
//
// The caller contract is string-based: no sources or no context
// short-circuits to NoSourcesMessage without any network I/O, and every
// failure comes back as a text beginning with ErrorMarker. Callers detect
// failure by that prefix, so both strings are stable API.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civiclens/tribuna/pkg/tribuna/retrieval"
)

// NoSourcesMessage is returned when retrieval produced nothing to ground
// an answer on.
const NoSourcesMessage = "Nuk u gjetën burime të përshtatshme."

// ErrorMarker prefixes every failure text.
const ErrorMarker = "Gabim"

const systemInstruction = "Ti je asistent ekspert që përgjigjet vetëm në shqip. " +
	"Përdor VETËM informacionin që ndodhet në KONTEKSTIN e dhënë më poshtë. " +
	"Përgjigju shkurt, qartë dhe jep referencat në formatin [n] ku n është numri i burimit. " +
	"Nëse informacioni nuk është i mjaftueshëm në burime, thuaj qartë se 'Nuk ka informacion të mjaftueshëm në burimet e dhëna'. " +
	"Mos imagjino informacion të ri jashtë kontekstit. Jep një përmbledhje 2-4 rreshtash."

// Client calls the chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces the final answer for query grounded in contextText.
// The returned sources are the input sources, unreconciled against which
// citations the model actually used; display-time matching is the
// caller's concern.
func (c *Client) Generate(ctx context.Context, query, contextText string, sources []retrieval.Source) (string, []retrieval.Source) {
	if len(sources) == 0 || contextText == "" {
		return NoSourcesMessage, nil
	}

	user := fmt.Sprintf("Pyetja e përdoruesit: %q\n\n"+
		"KONTEKSTI (Burimet e Deklaratave të numëruara):\n%s\n\n"+
		"Përgjigju në shqip, përdor vetëm këtë kontekst dhe cito burimin(ët) në tekst me [n].",
		query, contextText)

	text, err := c.chat(ctx, systemInstruction, user)
	if err != nil {
		return fmt.Sprintf("%s gjatë komunikimit me shërbimin gjuhësor: %v", ErrorMarker, err), nil
	}
	return strings.TrimSpace(text), sources
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Error != nil {
		return "", fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// IsError reports whether a Generate result is a failure text.
func IsError(answerText string) bool {
	return strings.HasPrefix(answerText, ErrorMarker)
}

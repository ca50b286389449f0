// Package ai is the completion client: a thin wrapper over an
// OpenRouter-compatible chat-completions HTTP API. It provides inline
// completion, code explanation, refactoring suggestions, bug detection,
// code generation, and a conversation-memory chat.
//
// Every call can fail with a network or provider error; callers degrade to
// a status message and never let the failure escape the editor.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable reports that the client is disabled or has no API key.
var ErrUnavailable = errors.New("ai client is not available")

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "mistralai/devstral-2512:free"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
	defaultTimeout     = 60 * time.Second
)

// Config configures the client. Zero values fall back to defaults; an
// empty APIKey leaves the client permanently unavailable.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Enabled     bool

	HTTPClient *http.Client
}

// Message is one chat turn in the provider's wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the completion provider. It is safe for concurrent use;
// only the chat memory is guarded, requests themselves are stateless.
type Client struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	memory []Message
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{cfg: cfg, http: hc}
}

// Available reports whether requests can be served at all.
func (c *Client) Available() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) invoke(ctx context.Context, messages []Message) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "http://localhost")
	req.Header.Set("X-Title", "inkpad")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("provider error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// Request carries the editing context for an inline completion.
type Request struct {
	CodeBefore  string
	CodeAfter   string
	CurrentLine string
	FileName    string
	Language    string
}

// Complete generates an inline completion for the cursor position. The
// context is truncated the same way the editor always has: the last 1000
// characters before the cursor and the first 500 after.
func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	msgs := completionMessages(r.FileName, r.Language,
		lastChars(r.CodeBefore, 1000), firstChars(r.CodeAfter, 500), r.CurrentLine)
	text, err := c.invoke(ctx, msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Explain describes what the given code does.
func (c *Client) Explain(ctx context.Context, code, fileName, language string) (string, error) {
	return c.invoke(ctx, explanationMessages(fileName, language, code))
}

// SuggestRefactoring reviews code and suggests improvements.
func (c *Client) SuggestRefactoring(ctx context.Context, code, fileName, language string) (string, error) {
	return c.invoke(ctx, refactoringMessages(fileName, language, code))
}

// DetectBugs analyzes code, optionally with a runtime error message.
func (c *Client) DetectBugs(ctx context.Context, code, errMessage, fileName, language string) (string, error) {
	if errMessage == "" {
		errMessage = "No specific error message provided"
	}
	return c.invoke(ctx, bugDetectionMessages(fileName, language, code, errMessage))
}

// GenerateFromDescription produces code for a requirement, given the
// surrounding context (truncated to its last 1500 characters).
func (c *Client) GenerateFromDescription(ctx context.Context, requirement, context_, fileName, language string) (string, error) {
	if context_ == "" {
		context_ = "No context provided"
	} else {
		context_ = lastChars(context_, 1500)
	}
	text, err := c.invoke(ctx, generationMessages(fileName, language, context_, requirement))
	if err != nil {
		return "", err
	}
	return StripCodeFences(strings.TrimSpace(text)), nil
}

// Chat answers a question about the current file, carrying conversation
// memory across calls. The file context is truncated to its last 2000
// characters.
func (c *Client) Chat(ctx context.Context, question, fileName, fileContext, language string) (string, error) {
	if fileContext == "" {
		fileContext = "No file context"
	} else {
		fileContext = lastChars(fileContext, 2000)
	}

	c.mu.Lock()
	history := append([]Message(nil), c.memory...)
	c.mu.Unlock()

	msgs := append(history, chatMessages(fileName, language, fileContext, question)...)
	answer, err := c.invoke(ctx, msgs)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.memory = append(c.memory,
		Message{Role: "user", Content: question},
		Message{Role: "assistant", Content: answer},
	)
	c.mu.Unlock()
	return answer, nil
}

// ClearMemory drops the chat conversation history.
func (c *Client) ClearMemory() {
	c.mu.Lock()
	c.memory = nil
	c.mu.Unlock()
}

// TestConnection performs a trivial round trip to verify configuration.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.invoke(ctx, []Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: "Say 'Hello' if you can hear me."},
	})
	return err
}

// StripCodeFences removes a wrapping markdown code block, if present.
func StripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func lastChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func firstChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Package coach talks to the remote coaching endpoint. The rest of the
// system treats it as an opaque collaborator: requests carry role-tagged
// messages (plus, for onboarding, the submit_goals tool schema) and every
// failure collapses into a safe local reply instead of an error the user
// would see.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hodan/capyd/internal/model"
)

const (
	defaultTimeout = 120 * time.Second
	maxReplyLen    = 400

	systemPrompt = "You are a friendly, chill capybara named Capy. You speak in short " +
		"sentences. You love hot springs and yuzu. You are an accountability partner."

	goalsPrompt = "Interview the user about their ambitions, then call submit_goals " +
		"once with their goals sorted into the six horizons."

	// FallbackReply stands in when the gateway is unreachable.
	FallbackReply = "I'm having a quiet moment by the hot spring. Keep going, you're doing great."

	// ThinkingReply is the placeholder shown while goal extraction cannot
	// produce a usable answer.
	ThinkingReply = "thinking..."
)

// Config holds coach gateway settings from the environment.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Message is one role-tagged chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is an HTTP client for an OpenAI-compatible chat-completions
// endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether the gateway can be reached at all. An
// unconfigured client still answers, with fallbacks.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

// Chat sends a coaching request: the persona, a context summary of the
// user's current goals and task counts, and the running conversation.
// Any transport, HTTP, or parse failure yields the canned fallback.
func (c *Client) Chat(ctx context.Context, summary string, messages []Message) string {
	if !c.Configured() {
		return FallbackReply
	}

	all := []Message{{Role: "system", Content: systemPrompt}}
	if summary != "" {
		all = append(all, Message{Role: "system", Content: "Context: " + summary})
	}
	all = append(all, messages...)

	resp, err := c.complete(ctx, chatRequest{Model: c.cfg.Model, Messages: all})
	if err != nil {
		c.logger.Warn("coach chat failed, using fallback", "error", err)
		return FallbackReply
	}
	reply := resp.text()
	if reply == "" {
		return FallbackReply
	}
	return truncate(reply, maxReplyLen)
}

// ExtractGoals runs the onboarding flow: the request carries the
// submit_goals tool schema, and the response is either plain assistant
// text (more interviewing) or the parsed six-tier hierarchy. On failure
// the text branch carries the thinking placeholder.
func (c *Client) ExtractGoals(ctx context.Context, messages []Message) (*model.Goals, string) {
	if !c.Configured() {
		return nil, ThinkingReply
	}

	all := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: goalsPrompt},
	}
	all = append(all, messages...)

	resp, err := c.complete(ctx, chatRequest{
		Model:    c.cfg.Model,
		Messages: all,
		Tools:    []tool{submitGoalsTool},
	})
	if err != nil {
		c.logger.Warn("goal extraction failed", "error", err)
		return nil, ThinkingReply
	}

	if args := resp.toolArguments("submit_goals"); args != "" {
		var goals model.Goals
		if err := json.Unmarshal([]byte(args), &goals); err != nil {
			c.logger.Warn("decode submit_goals arguments", "error", err)
			return nil, ThinkingReply
		}
		return &goals, ""
	}
	if text := resp.text(); text != "" {
		return nil, text
	}
	return nil, ThinkingReply
}

func (c *Client) complete(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var out *chatResponse
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.post(ctx, body)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.code < 500 {
				return err // client error, retrying won't help
			}
			return retry.RetryableError(err)
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*chatResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coach request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode coach response: %w", err)
	}
	return &decoded, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("coach endpoint returned status %d", e.code)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

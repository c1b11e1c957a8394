package coach

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}, slog.Default())
}

func textResponse(content string) string {
	return `{"choices":[{"message":{"content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestChatReturnsAssistantText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("first message role = %q, want system", req.Messages[0].Role)
		}
		w.Write([]byte(textResponse("Nice work. One more push?")))
	})

	reply := c.Chat(context.Background(), "3 of 5 daily tasks done", []Message{{Role: "user", Content: "hi"}})
	if reply != "Nice work. One more push?" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatFallsBackOnHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	if got := c.Chat(context.Background(), "", nil); got != FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestChatFallsBackOnMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	})

	if got := c.Chat(context.Background(), "", nil); got != FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestChatUnconfigured(t *testing.T) {
	c := NewClient(Config{}, slog.Default())
	if got := c.Chat(context.Background(), "", nil); got != FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestChatTruncatesLongReplies(t *testing.T) {
	long := strings.Repeat("yuzu ", 200)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(long)))
	})

	reply := c.Chat(context.Background(), "", nil)
	if len([]rune(reply)) != maxReplyLen {
		t.Errorf("reply length = %d, want %d", len([]rune(reply)), maxReplyLen)
	}
}

func TestExtractGoalsToolCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "submit_goals" {
			t.Errorf("tools = %+v, want submit_goals", req.Tools)
		}

		args := `{"long_term":["own a farm"],"decade":[],"yearly":["run a marathon"],"monthly":[],"weekly":["read 1 book"],"daily":["drink water"]}`
		resp := `{"choices":[{"message":{"content":"","tool_calls":[{"function":{"name":"submit_goals","arguments":` + mustJSON(args) + `}}]}}]}`
		w.Write([]byte(resp))
	})

	goals, text := c.ExtractGoals(context.Background(), []Message{{Role: "user", Content: "my goals..."}})
	if goals == nil {
		t.Fatalf("expected goals, got text %q", text)
	}
	if len(goals.LongTerm) != 1 || goals.LongTerm[0] != "own a farm" {
		t.Errorf("long_term = %v", goals.LongTerm)
	}
	if len(goals.Daily) != 1 || goals.Daily[0] != "drink water" {
		t.Errorf("daily = %v", goals.Daily)
	}
}

func TestExtractGoalsPlainText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("Tell me more about this year.")))
	})

	goals, text := c.ExtractGoals(context.Background(), nil)
	if goals != nil {
		t.Fatalf("unexpected goals %+v", goals)
	}
	if text != "Tell me more about this year." {
		t.Errorf("text = %q", text)
	}
}

func TestExtractGoalsFailurePlaceholder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	goals, text := c.ExtractGoals(context.Background(), nil)
	if goals != nil || text != ThinkingReply {
		t.Errorf("got (%v, %q), want (nil, placeholder)", goals, text)
	}
}

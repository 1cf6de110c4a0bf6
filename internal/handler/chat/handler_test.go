package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sparklabs/sparkchat/internal/model/chat"
	chatservice "github.com/sparklabs/sparkchat/internal/service/chat"
	"github.com/sparklabs/sparkchat/internal/store"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func setupRouter(t *testing.T, completer *stubCompleter) *chi.Mux {
	t.Helper()

	turnStore, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = turnStore.Close() })

	handler := New(chatservice.NewService(turnStore, completer))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func getHistory(t *testing.T, r *chi.Mux) []chat.Turn {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from history, got %d", resp.Code)
	}

	var turns []chat.Turn
	if err := json.NewDecoder(resp.Body).Decode(&turns); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	return turns
}

func TestGetHistoryEmpty(t *testing.T) {
	r := setupRouter(t, &stubCompleter{reply: "hi"})

	turns := getHistory(t, r)
	if len(turns) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(turns))
	}
}

func TestSubmitMessageRoundTrip(t *testing.T) {
	r := setupRouter(t, &stubCompleter{reply: "4"})

	payload, _ := json.Marshal(map[string]string{"message": "2+2?"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result struct {
		UserMsg chat.Turn `json:"userMsg"`
		AIMsg   chat.Turn `json:"aiMsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.UserMsg.Role != chat.RoleUser || result.UserMsg.Text != "2+2?" {
		t.Fatalf("unexpected user turn: %+v", result.UserMsg)
	}
	if result.AIMsg.Role != chat.RoleAssistant || result.AIMsg.Text != "4" {
		t.Fatalf("unexpected assistant turn: %+v", result.AIMsg)
	}

	turns := getHistory(t, r)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns in history, got %d", len(turns))
	}
	if turns[0].Text != "2+2?" || turns[1].Text != "4" {
		t.Fatalf("unexpected history order: %+v", turns)
	}
	if turns[1].Timestamp.Before(turns[0].Timestamp) {
		t.Fatalf("timestamps not non-decreasing: %v then %v", turns[0].Timestamp, turns[1].Timestamp)
	}
}

func TestSubmitMessageMissing(t *testing.T) {
	r := setupRouter(t, &stubCompleter{reply: "unused"})

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}

	if turns := getHistory(t, r); len(turns) != 0 {
		t.Fatalf("validation failures must not write turns, got %d", len(turns))
	}
}

func TestSubmitMessageGatewayFailure(t *testing.T) {
	r := setupRouter(t, &stubCompleter{err: errors.New("upstream down")})

	payload, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var errBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if errBody["error"] != "Failed to generate response" {
		t.Fatalf("unexpected error message: %q", errBody["error"])
	}

	// The user turn survives the gateway failure; no assistant turn is added.
	turns := getHistory(t, r)
	if len(turns) != 1 {
		t.Fatalf("expected exactly 1 persisted turn, got %d", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[0].Text != "hello" {
		t.Fatalf("unexpected persisted turn: %+v", turns[0])
	}
}

func TestClearHistory(t *testing.T) {
	r := setupRouter(t, &stubCompleter{reply: "ok"})

	payload, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodDelete, "/history", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("clear #%d: expected 200, got %d", i+1, resp.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode clear response: %v", err)
		}
		if body["message"] != "Chat cleared" {
			t.Fatalf("unexpected clear confirmation: %q", body["message"])
		}
	}

	if turns := getHistory(t, r); len(turns) != 0 {
		t.Fatalf("expected empty history after clear, got %d turns", len(turns))
	}
}

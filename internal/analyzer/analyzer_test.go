package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codewhisper/internal/gemini"
)

func fakeAI(t *testing.T, response string) *gemini.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": response}}}},
			},
		})
	}))
	t.Cleanup(server.Close)

	return gemini.New(server.URL, "test-key", "test-model")
}

func TestAnalyze_AIPathWithFencedJSON(t *testing.T) {
	ai := fakeAI(t, "```json\n{\"intent\":\"debug\",\"keywords\":[\"auth\"],\"tech_stack\":[\"jwt\"],\"search_terms\":\"jwt login failure\",\"severity\":\"high\"}\n```")

	profile := New(ai).Analyze(context.Background(), "login broken")

	if profile.Intent != "debug" {
		t.Errorf("Intent = %q, want debug", profile.Intent)
	}
	if profile.SearchTerms != "jwt login failure" {
		t.Errorf("SearchTerms = %q, want %q", profile.SearchTerms, "jwt login failure")
	}
	if profile.Severity != "high" {
		t.Errorf("Severity = %q, want high", profile.Severity)
	}
}

func TestAnalyze_AIGarbageFallsBack(t *testing.T) {
	ai := fakeAI(t, "Sure! Here is my analysis in prose, definitely not JSON.")

	profile := New(ai).Analyze(context.Background(), "the build is slow")

	// The deterministic fallback classified the query instead.
	if profile.Intent != "performance" {
		t.Errorf("Intent = %q, want performance from the fallback", profile.Intent)
	}
	if profile.SearchTerms == "" {
		t.Error("fallback must produce non-empty search terms")
	}
}

func TestAnalyze_AIMissingSearchTermsFallsBack(t *testing.T) {
	ai := fakeAI(t, `{"intent":"fix","keywords":[],"tech_stack":[],"search_terms":"","severity":"low"}`)

	profile := New(ai).Analyze(context.Background(), "memory leak in worker pool")

	if profile.SearchTerms == "" {
		t.Error("expected fallback search terms when the AI omits them")
	}
	if profile.Intent != "memory" {
		t.Errorf("Intent = %q, want memory from the fallback", profile.Intent)
	}
}

func TestAnalyze_CollaboratorUnavailable(t *testing.T) {
	ai := gemini.New("http://localhost:0", "", "test-model") // no key: never called

	profile := New(ai).Analyze(context.Background(), "api timeout when creating session tokens")

	if profile == nil {
		t.Fatal("Analyze returned nil")
	}
	if profile.SearchTerms == "" {
		t.Error("fallback must produce non-empty search terms for a non-empty query")
	}
}

func TestAnalyze_AITransportErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ai := gemini.New(server.URL, "test-key", "test-model")
	profile := New(ai).Analyze(context.Background(), "database query slow")

	if profile.SearchTerms == "" {
		t.Error("fallback must cover AI transport errors")
	}
}

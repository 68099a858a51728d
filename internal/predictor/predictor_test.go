package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"codewhisper/internal/githubapi"
	"codewhisper/internal/models"
)

// fakeTracker serves a closed-issue search result plus per-issue comment
// threads, with optional per-issue failures.
type fakeTracker struct {
	issues   []map[string]any
	comments map[int][]map[string]any
	fail     map[int]bool
}

func (f *fakeTracker) start(t *testing.T) (*httptest.Server, *githubapi.Client) {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, 0, len(f.issues))
		for _, issue := range f.issues {
			issue["comments_url"] = fmt.Sprintf("%s/issues/%v/comments", server.URL, issue["number"])
			items = append(items, issue)
		}
		json.NewEncoder(w).Encode(map[string]any{"total_count": len(items), "items": items})
	})
	mux.HandleFunc("/issues/", func(w http.ResponseWriter, r *http.Request) {
		var number int
		fmt.Sscanf(r.URL.Path, "/issues/%d/comments", &number)
		if f.fail[number] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(f.comments[number])
	})

	return server, githubapi.New(server.URL, "")
}

func issue(number int, title string) map[string]any {
	return map[string]any{
		"number":   number,
		"title":    title,
		"html_url": fmt.Sprintf("https://github.com/o/r/issues/%d", number),
		"state":    "closed",
	}
}

func comment(body string) map[string]any {
	return map[string]any{"body": body, "user": map[string]any{"login": "dev"}}
}

func TestPredict_NoClosedIssues(t *testing.T) {
	_, gh := (&fakeTracker{}).start(t)
	p := New(gh)

	report := p.Predict(context.Background(), &models.QueryProfile{SearchTerms: "anything"}, "o", "r")

	if report.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %q, want low", report.Confidence)
	}
	if len(report.Predictions) != 0 {
		t.Errorf("got %d predictions, want 0", len(report.Predictions))
	}
	if report.Error != "" {
		t.Errorf("unexpected error %q: empty candidate set is a valid terminal state", report.Error)
	}
	if report.Message == "" {
		t.Error("expected a diagnostic message for the no-data case")
	}
}

func TestPredict_SearchFailureDegradesToLowConfidence(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := New(githubapi.New(server.URL, ""))
	report := p.Predict(context.Background(), &models.QueryProfile{SearchTerms: "x"}, "o", "r")

	if report.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %q, want low", report.Confidence)
	}
	if report.Error == "" {
		t.Error("expected the transport error to be surfaced on the report")
	}
}

func TestPredict_UpgradeEvidenceWithSuccessSignal(t *testing.T) {
	tracker := &fakeTracker{
		issues: []map[string]any{issue(10, "lodash breaks the build")},
		comments: map[int][]map[string]any{
			10: {comment("please upgrade lodash to fix this, thanks! adding padding so the comment body clears the length gate for solution evidence")},
		},
	}
	_, gh := tracker.start(t)

	report := New(gh).Predict(context.Background(), &models.QueryProfile{SearchTerms: "lodash"}, "o", "r")

	if len(report.Predictions) != 1 {
		t.Fatalf("got %d predictions, want 1", len(report.Predictions))
	}
	p := report.Predictions[0]
	if p.Label != "UPGRADE DEPENDENCY" {
		t.Errorf("label = %q, want UPGRADE DEPENDENCY", p.Label)
	}
	// "thanks!" is a success phrase, so the group has a success signal.
	if p.SuccessCount != 1 || p.FailureCount != 0 {
		t.Errorf("signal = %d/%d, want 1/0", p.SuccessCount, p.FailureCount)
	}
	if p.SuccessRate != 1.0 {
		t.Errorf("success rate = %.2f, want 1.00", p.SuccessRate)
	}
	if report.TotalIssuesAnalyzed != 1 {
		t.Errorf("TotalIssuesAnalyzed = %d, want 1", report.TotalIssuesAnalyzed)
	}
}

func TestPredict_SingleThreadFailureIsIsolated(t *testing.T) {
	tracker := &fakeTracker{
		comments: map[int][]map[string]any{},
		fail:     map[int]bool{3: true},
	}
	for i := 1; i <= 15; i++ {
		tracker.issues = append(tracker.issues, issue(i, fmt.Sprintf("issue %d", i)))
		tracker.comments[i] = []map[string]any{
			comment("apply the workaround described above, it solved the problem for everyone on this thread so far, no other change was needed"),
		}
	}
	_, gh := tracker.start(t)

	report := New(gh).Predict(context.Background(), &models.QueryProfile{SearchTerms: "x"}, "o", "r")

	if report.Error != "" {
		t.Fatalf("unexpected report error: %s", report.Error)
	}
	if report.TotalIssuesAnalyzed != 14 {
		t.Errorf("TotalIssuesAnalyzed = %d, want 14 (one dropped thread)", report.TotalIssuesAnalyzed)
	}
	if len(report.Predictions) == 0 {
		t.Fatal("expected predictions from the surviving threads")
	}
	if report.Predictions[0].Trials != 14 {
		t.Errorf("trials = %d, want 14", report.Predictions[0].Trials)
	}
	if report.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %q, want high (trials > 3)", report.Confidence)
	}
}

func TestPredict_CandidateCap(t *testing.T) {
	tracker := &fakeTracker{comments: map[int][]map[string]any{}}
	for i := 1; i <= 30; i++ {
		tracker.issues = append(tracker.issues, issue(i, fmt.Sprintf("issue %d", i)))
		tracker.comments[i] = []map[string]any{comment("short")}
	}
	_, gh := tracker.start(t)

	report := New(gh).Predict(context.Background(), &models.QueryProfile{SearchTerms: "x"}, "o", "r")

	if report.TotalIssuesAnalyzed != 15 {
		t.Errorf("TotalIssuesAnalyzed = %d, want 15 (thread mining is capped)", report.TotalIssuesAnalyzed)
	}
}

// Re-running the predictor over the same corpus must yield an identical
// report: classification is a pure function of comment text and the ranking
// tie-break is stable.
func TestPredict_Idempotent(t *testing.T) {
	tracker := &fakeTracker{
		issues: []map[string]any{issue(1, "a"), issue(2, "b")},
		comments: map[int][]map[string]any{
			1: {comment("upgrade the library to 3.2, this worked for me on two different machines and it should work for you as well without any other change")},
			2: {comment("edit the config file as shown in the snippet below, after changing it everything was resolved on my machine and on our build server")},
		},
	}
	_, gh := tracker.start(t)
	p := New(gh)
	profile := &models.QueryProfile{SearchTerms: "x"}

	first, _ := json.Marshal(p.Predict(context.Background(), profile, "o", "r"))
	for i := 0; i < 3; i++ {
		again, _ := json.Marshal(p.Predict(context.Background(), profile, "o", "r"))
		if string(first) != string(again) {
			t.Fatalf("run %d differed:\n%s\nvs\n%s", i, first, again)
		}
	}
}

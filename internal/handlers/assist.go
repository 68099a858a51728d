package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"codewhisper/internal/analyzer"
	"codewhisper/internal/autofix"
	"codewhisper/internal/cache"
	"codewhisper/internal/config"
	"codewhisper/internal/fetcher"
	"codewhisper/internal/formatter"
	"codewhisper/internal/metrics"
	"codewhisper/internal/models"
	"codewhisper/internal/predictor"
	"codewhisper/internal/responder"
	"codewhisper/internal/stackoverflow"
	"codewhisper/internal/validation"
)

// AssistHandler runs the full query pipeline behind POST /mcp.
type AssistHandler struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	fetcher   *fetcher.Fetcher
	predictor *predictor.Predictor
	responder *responder.Responder
	autofix   *autofix.Generator
	so        *stackoverflow.Client
	cache     cache.Cache
}

// NewAssistHandler wires the pipeline stages together.
func NewAssistHandler(cfg *config.Config, an *analyzer.Analyzer, f *fetcher.Fetcher, p *predictor.Predictor, r *responder.Responder, af *autofix.Generator, so *stackoverflow.Client, rc cache.Cache) *AssistHandler {
	return &AssistHandler{
		cfg:       cfg,
		analyzer:  an,
		fetcher:   f,
		predictor: p,
		responder: r,
		autofix:   af,
		so:        so,
		cache:     rc,
	}
}

// AssistRequest is the POST /mcp body. EnableAFG accepts either false or an
// options object, so it stays raw until parsed.
type AssistRequest struct {
	Query     string          `json:"query"`
	RepoOwner string          `json:"repoOwner"`
	RepoName  string          `json:"repoName"`
	EnableIRP *bool           `json:"enableIRP"`
	EnableAFG json.RawMessage `json:"enableAFG"`
}

type contextPayload struct {
	Markdown      string              `json:"markdown"`
	GitHub        *models.RepoContext `json:"github"`
	StackOverflow []models.Question   `json:"stackoverflow"`
}

type responseMetadata struct {
	Timestamp        string           `json:"timestamp"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	UsingGemini      bool             `json:"using_gemini"`
	UsingGitHubToken bool             `json:"using_github_token"`
	Features         responseFeatures `json:"features"`
}

type responseFeatures struct {
	IRP bool `json:"irp"`
	AFG bool `json:"afg"`
}

type assistResponse struct {
	Success     bool                     `json:"success"`
	Query       string                   `json:"query"`
	Analysis    *models.QueryProfile     `json:"analysis"`
	Context     contextPayload           `json:"context"`
	Predictions *models.PredictionReport `json:"predictions"`
	PRPlan      *autofix.Plan            `json:"prPlan"`
	AIResponse  string                   `json:"ai_response"`
	Metadata    responseMetadata         `json:"metadata"`
}

// Assist handles POST /mcp.
func (h *AssistHandler) Assist(c fiber.Ctx) error {
	var req AssistRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Query == "" || req.RepoOwner == "" || req.RepoName == "" {
		return jsonMissingFields(c, []string{"query", "repoOwner", "repoName"})
	}
	if ok, msg := validation.ValidateQuery(req.Query); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if !validation.ValidateOwner(req.RepoOwner) {
		return jsonError(c, fiber.StatusBadRequest, "invalid repository owner")
	}
	if !validation.ValidateRepoName(req.RepoName) {
		return jsonError(c, fiber.StatusBadRequest, "invalid repository name")
	}

	enableIRP := req.EnableIRP == nil || *req.EnableIRP
	afgEnabled, afgOpts := parseAFGOptions(req.EnableAFG)

	// Repeated identical lookups are served from the short-lived cache; the
	// pipeline itself stays cache-free.
	cacheKey := cache.Key(req.Query, req.RepoOwner, req.RepoName,
		boolTag(enableIRP), string(req.EnableAFG))
	if cached, ok := h.cache.Get(cacheKey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	start := time.Now()
	ctx := c.Context()
	repo := req.RepoOwner + "/" + req.RepoName
	slog.Info("assist request", "repo", repo, "irp", enableIRP, "afg", afgEnabled,
		"request_id", c.Locals("request_id"))

	// Stage 1: analyze the query.
	profile := h.analyzer.Analyze(ctx, req.Query)

	// Stage 2: fetch tracker context and Q&A results concurrently.
	var (
		wg        sync.WaitGroup
		repoCtx   *models.RepoContext
		questions []models.Question
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		repoCtx = h.fetcher.Fetch(ctx, profile, req.RepoOwner, req.RepoName)
	}()
	go func() {
		defer wg.Done()
		var err error
		if questions, err = h.so.Search(ctx, profile.SearchTerms); err != nil {
			slog.Warn("stack overflow fetch failed", "error", err)
			questions = nil
		}
	}()
	wg.Wait()

	// Stage 3: resolution prediction.
	var report *models.PredictionReport
	if enableIRP {
		report = h.predictor.Predict(ctx, profile, req.RepoOwner, req.RepoName)
		metrics.RecordPredictions(len(report.Predictions))
	}

	// Stage 4: deterministic report.
	markdown := formatter.Format(profile, repoCtx, questions, report)

	// Stage 5: AI-phrased answer.
	aiResponse := h.responder.Generate(ctx, req.Query, markdown, report)

	// Stage 6: optional patch plan.
	var plan *autofix.Plan
	if afgEnabled {
		plan = h.autofix.Generate(ctx, profile, report, req.RepoOwner, req.RepoName, afgOpts)
	}

	elapsed := time.Since(start)
	outcome := lookupOutcome(enableIRP, report)
	metrics.RecordRequest(outcome, elapsed)
	metrics.RecordQueryLookup(repo, outcome)

	resp := assistResponse{
		Success:  true,
		Query:    req.Query,
		Analysis: profile,
		Context: contextPayload{
			Markdown:      markdown,
			GitHub:        repoCtx,
			StackOverflow: questions,
		},
		Predictions: report,
		PRPlan:      plan,
		AIResponse:  aiResponse,
		Metadata: responseMetadata{
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
			ProcessingTimeMs: elapsed.Milliseconds(),
			UsingGemini:      h.cfg.HasGemini(),
			UsingGitHubToken: h.cfg.HasGitHubToken(),
			Features:         responseFeatures{IRP: enableIRP, AFG: afgEnabled},
		},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.cache.Set(cacheKey, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// parseAFGOptions interprets the enableAFG field: absent, null or false
// disables the generator; true or an options object enables it. DryRun
// defaults to true — apply mode must be requested explicitly.
func parseAFGOptions(raw json.RawMessage) (bool, autofix.Options) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("false")) {
		return false, autofix.Options{}
	}

	opts := autofix.Options{DryRun: true, Base: "main"}
	if bytes.Equal(trimmed, []byte("true")) {
		return true, opts
	}

	var parsed struct {
		DryRun *bool  `json:"dryRun"`
		Base   string `json:"base"`
	}
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		slog.Warn("unparseable enableAFG options, using defaults", "error", err)
		return true, opts
	}
	if parsed.DryRun != nil {
		opts.DryRun = *parsed.DryRun
	}
	if parsed.Base != "" {
		opts.Base = parsed.Base
	}
	return true, opts
}

func lookupOutcome(enableIRP bool, report *models.PredictionReport) string {
	switch {
	case !enableIRP:
		return models.OutcomeDegraded
	case report.Error != "":
		return models.OutcomeFailed
	case len(report.Predictions) == 0:
		return models.OutcomeNoData
	default:
		return models.OutcomePredicted
	}
}

func boolTag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

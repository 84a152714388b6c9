package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"revisor-backend/internal/llm"
	"revisor-backend/internal/pending"
	"revisor-backend/internal/shared/metrics"
	"revisor-backend/internal/shared/telemetry"
)

// ChunkThresholdDefault selects the chunked path once the source document
// reaches this length. Independent from the per-request truncation ceiling.
const ChunkThresholdDefault = 30000

// directBaseDocBudget bounds each reference document's contribution to the
// consolidated single-request prompt.
const directBaseDocBudget = 3000

// DocumentSource supplies reference material for prompts.
type DocumentSource interface {
	ReferenceProvider
	// CombinedExcerpt concatenates every stored reference document,
	// bounded per document, for the single-request path.
	CombinedExcerpt(ctx context.Context, perDocLimit int) string
}

// ConnectionTester reports whether the remote API is reachable.
type ConnectionTester interface {
	TestConnection(ctx context.Context) (string, error)
}

// Service runs teaching-plan analyses. It owns mode selection (direct
// versus chunked), the two-phase begin/resume flow for documents whose
// text arrives out of band, and run auditing.
type Service struct {
	client         llm.Client
	docs           DocumentSource
	pending        pending.Store
	runs           RunsRepo
	skipPolicy     SkipPolicy
	requestDelay   time.Duration
	chunkThreshold int
	excerptLimit   int
	template       string
	directParams   llm.Params
	sleep          func(time.Duration)
	now            func() time.Time
}

// ServiceOptions configures a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	ChunkThreshold int
	ExcerptLimit   int
	RequestDelay   time.Duration
	Template       string
	MaxTokens      int
	Temperature    float64
	SkipPolicy     *SkipPolicy
}

// NewService constructs a Service.
func NewService(client llm.Client, docs DocumentSource, pendingStore pending.Store, runs RunsRepo, opts ServiceOptions) *Service {
	if opts.ChunkThreshold <= 0 {
		opts.ChunkThreshold = ChunkThresholdDefault
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = 3 * time.Second
	}
	if opts.Template == "" {
		opts.Template = DefaultPromptTemplate
	}
	skipPolicy := NewSkipPolicy()
	if opts.SkipPolicy != nil {
		skipPolicy = *opts.SkipPolicy
	}
	return &Service{
		client:         client,
		docs:           docs,
		pending:        pendingStore,
		runs:           runs,
		skipPolicy:     skipPolicy,
		requestDelay:   opts.RequestDelay,
		chunkThreshold: opts.ChunkThreshold,
		excerptLimit:   opts.ExcerptLimit,
		template:       opts.Template,
		directParams:   llm.Params{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature},
		sleep:          time.Sleep,
		now:            time.Now,
	}
}

// WithSleep replaces the inter-request sleep for this service and the
// orchestrators it builds.
func (s *Service) WithSleep(sleep func(time.Duration)) *Service {
	s.sleep = sleep
	return s
}

// BeginResult is the outcome of Begin: either a finished report, or a
// resumption token when the source text must be produced out of band.
type BeginResult struct {
	Report    string
	RequestID string
	Deferred  bool
}

// Begin starts an analysis. When deferred is set the source text is not
// yet available (the caller extracts it client-side); the run is parked
// under a resumption token with a 30-minute TTL.
func (s *Service) Begin(ctx context.Context, ownerID string, ptdText string, deferred bool, userCtx UserContext, sourceFileKey string) (BeginResult, error) {
	if deferred {
		req := pending.AnalysisRequest{
			ID:            pending.NewRequestID(ownerID),
			OwnerID:       ownerID,
			Mode:          ModeChunked,
			Answers:       userCtx.asMap(),
			SourceFileKey: sourceFileKey,
			CreatedAt:     s.now(),
		}
		if err := s.pending.Put(ctx, req); err != nil {
			return BeginResult{}, fmt.Errorf("park analysis request: %w", err)
		}
		telemetry.Info("analysis.deferred", map[string]any{
			"request_id": req.ID,
			"owner_id":   ownerID,
		})
		return BeginResult{RequestID: req.ID, Deferred: true}, nil
	}

	report, err := s.Analyze(ctx, ownerID, ptdText, "", userCtx)
	if err != nil {
		return BeginResult{}, err
	}
	return BeginResult{Report: report}, nil
}

// Resume completes a parked analysis with the caller-extracted text. The
// caller must be the owner of the parked request; on mismatch or expiry
// the request is gone and the attempt fails.
func (s *Service) Resume(ctx context.Context, ownerID, requestID, extractedText string) (string, error) {
	req, err := s.pending.Consume(ctx, requestID, ownerID)
	if err != nil {
		telemetry.Warn("analysis.resume_rejected", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return "", err
	}

	userCtx := userContextFromMap(req.Answers)
	return s.Analyze(ctx, ownerID, extractedText, "", userCtx)
}

// Analyze runs one analysis end to end, selecting direct or chunked mode
// by source length, and records an audit row either way.
func (s *Service) Analyze(ctx context.Context, ownerID, ptdText, pcnText string, userCtx UserContext) (string, error) {
	mode := ModeDirect
	if len(ptdText) >= s.chunkThreshold {
		mode = ModeChunked
	}

	telemetry.Info("analysis.started", map[string]any{
		"owner_id":   ownerID,
		"mode":       mode,
		"ptd_length": len(ptdText),
	})
	metrics.IncAnalysisStarted()
	started := s.now()

	var report string
	var err error
	if mode == ModeChunked {
		orch := NewOrchestrator(s.client, s.docs, s.skipPolicy, s.requestDelay).
			WithExcerptLimit(s.excerptLimit).
			WithSleep(s.sleep)
		report, err = orch.Run(ctx, ptdText, pcnText, userCtx)
	} else {
		report, err = s.analyzeDirect(ctx, ptdText, userCtx)
	}

	duration := s.now().Sub(started)
	s.recordRun(ctx, ownerID, mode, err, duration)

	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.failed", map[string]any{
			"owner_id": ownerID,
			"mode":     mode,
			"error":    err.Error(),
		})
		return "", err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(duration.Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"owner_id":      ownerID,
		"mode":          mode,
		"duration_ms":   duration.Milliseconds(),
		"report_length": len(report),
	})
	return report, nil
}

// analyzeDirect issues one consolidated request built from the configured
// template and flattens markdown out of the reply.
func (s *Service) analyzeDirect(ctx context.Context, ptdText string, userCtx UserContext) (string, error) {
	userBlock := "INFORMAÇÕES DA TURMA:\n" + userCtx.Render()
	baseDocs := ""
	if s.docs != nil {
		baseDocs = s.docs.CombinedExcerpt(ctx, directBaseDocBudget)
	}

	prompt := BuildDirectPrompt(s.template, userBlock, baseDocs, ptdText, "")

	completion, err := s.client.Send(ctx, prompt, s.directParams)
	if err != nil {
		return "", err
	}
	return StripMarkdown(completion.Content), nil
}

// RunsForOwner lists the owner's recorded runs, newest first.
func (s *Service) RunsForOwner(ctx context.Context, ownerID string, limit, offset int) ([]Run, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListByOwner(ctx, ownerID, limit, offset)
}

// TestConnection round-trips a canned prompt when the client supports it.
func (s *Service) TestConnection(ctx context.Context) (string, error) {
	tester, ok := s.client.(ConnectionTester)
	if !ok {
		return "", errors.New("client does not support connection tests")
	}
	return tester.TestConnection(ctx)
}

func (s *Service) recordRun(ctx context.Context, ownerID, mode string, runErr error, duration time.Duration) {
	if s.runs == nil {
		return
	}

	status := RunStatusCompleted
	errMsg := ""
	if runErr != nil {
		status = RunStatusFailed
		errMsg = runErr.Error()
	}
	completed := s.now()
	run := Run{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Mode:        mode,
		Status:      status,
		Error:       errMsg,
		DurationMs:  duration.Milliseconds(),
		CreatedAt:   completed.Add(-duration),
		CompletedAt: &completed,
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		// Auditing must not fail the analysis itself.
		telemetry.Warn("analysis.run_audit_failed", map[string]any{"error": err.Error()})
	}
}

func (u UserContext) asMap() map[string]string {
	m := make(map[string]string, len(u.labels))
	for _, label := range u.labels {
		m[label] = u.values[label]
	}
	return m
}

func userContextFromMap(m map[string]string) UserContext {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	pairs := make([][2]string, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, [2]string{label, m[label]})
	}
	return NewUserContext(pairs)
}

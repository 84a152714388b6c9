package analysis

import (
	"context"
	"time"

	"revisor-backend/internal/llm"
	"revisor-backend/internal/shared/metrics"
	"revisor-backend/internal/shared/telemetry"
)

const (
	// SkippedContent is recorded for the accessibility topic when the form
	// carries no special-needs signal.
	SkippedContent = "Usuário não identificou ter alunos PcD's no formulário."
	// FailedContent replaces a single topic that could not be analyzed.
	// One topic failing never aborts the run.
	FailedContent = "Não foi possível analisar este tópico."

	sourceExcerptBudget    = 20000
	secondaryExcerptBudget = 10000
	referenceExcerptBudget = 15000

	topicMaxTokens   = 2000
	topicTemperature = 0.3
)

// TopicStatus classifies a per-topic outcome.
type TopicStatus string

const (
	StatusSuccess TopicStatus = "success"
	StatusFailed  TopicStatus = "failed"
	StatusSkipped TopicStatus = "skipped"
)

// TopicResult is one topic's outcome within a run. Held only in memory
// until assembly; the assembled report is the sole persistent artifact.
type TopicResult struct {
	TopicNumber int
	Content     string
	Status      TopicStatus
}

// ReferenceProvider hands out bounded reference-document excerpts by
// identifier. An unknown identifier yields an empty excerpt, which is
// valid prompt input.
type ReferenceProvider interface {
	ExcerptFor(ctx context.Context, identifier string, limit int) string
}

// Orchestrator runs the per-topic analysis loop: header extraction, then
// one sequential bounded request per catalog topic with an inter-request
// delay, collecting per-topic outcomes into a final report. Strictly
// sequential; the remote API's rate limit makes serialization with an
// explicit delay cheaper than concurrency plus backoff.
type Orchestrator struct {
	client       llm.Client
	references   ReferenceProvider
	skipPolicy   SkipPolicy
	delay        time.Duration
	excerptLimit int
	sleep        func(time.Duration)
}

// NewOrchestrator constructs an Orchestrator. delay is the pause before
// every request except the first.
func NewOrchestrator(client llm.Client, references ReferenceProvider, skipPolicy SkipPolicy, delay time.Duration) *Orchestrator {
	return &Orchestrator{
		client:       client,
		references:   references,
		skipPolicy:   skipPolicy,
		delay:        delay,
		excerptLimit: sourceExcerptBudget,
		sleep:        time.Sleep,
	}
}

// WithSleep replaces the inter-request sleep. Tests inject a recorder.
func (o *Orchestrator) WithSleep(sleep func(time.Duration)) *Orchestrator {
	o.sleep = sleep
	return o
}

// WithExcerptLimit overrides the per-topic source excerpt ceiling.
func (o *Orchestrator) WithExcerptLimit(limit int) *Orchestrator {
	if limit > 0 {
		o.excerptLimit = limit
	}
	return o
}

// Run executes the full chunked analysis and returns the assembled report.
// The only run-level failure is context cancellation; every per-topic
// error is contained as a placeholder result.
func (o *Orchestrator) Run(ctx context.Context, ptdText, pcnText string, userCtx UserContext) (string, error) {
	telemetry.Info("analysis.chunked_started", map[string]any{
		"ptd_length": len(ptdText),
		"pcn_length": len(pcnText),
	})

	header := ExtractHeader(ctx, o.client, ptdText, pcnText)

	results := make(map[int]TopicResult, len(topics))
	first := true

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			break
		}

		if topic.Number == accessibilityTopic && o.skipPolicy.SkipAccessibility(userCtx) {
			telemetry.Info("analysis.topic_skipped", map[string]any{"topic": topic.Number})
			metrics.IncTopicSkipped()
			results[topic.Number] = TopicResult{TopicNumber: topic.Number, Content: SkippedContent, Status: StatusSkipped}
			continue
		}

		if !first {
			o.sleep(o.delay)
		}
		first = false

		results[topic.Number] = o.processTopic(ctx, topic, ptdText, pcnText, userCtx, header)
	}

	report := AssembleReport(header, results)
	telemetry.Info("analysis.chunked_completed", map[string]any{"report_length": len(report)})
	return report, ctx.Err()
}

func (o *Orchestrator) processTopic(ctx context.Context, topic Topic, ptdText, pcnText string, userCtx UserContext, header HeaderInfo) TopicResult {
	telemetry.Info("analysis.topic_started", map[string]any{
		"topic": topic.Number,
		"title": topic.Title,
	})

	reference := ""
	if o.references != nil {
		reference = o.references.ExcerptFor(ctx, topic.ReferenceDocument, referenceExcerptBudget)
	}

	ptdExcerpt := CleanText(RelevantExcerpt(ptdText, topic, o.excerptLimit))
	pcnExcerpt := CleanText(RelevantExcerpt(pcnText, topic, secondaryExcerptBudget))
	reference = CleanText(reference)

	prompt := CleanText(BuildTopicPrompt(topic, ptdExcerpt, pcnExcerpt, reference, userCtx, header))

	completion, err := o.client.Send(ctx, prompt, llm.Params{MaxTokens: topicMaxTokens, Temperature: topicTemperature})
	if err != nil {
		telemetry.Warn("analysis.topic_failed", map[string]any{
			"topic": topic.Number,
			"error": err.Error(),
		})
		metrics.IncTopicFailed()
		return TopicResult{TopicNumber: topic.Number, Content: FailedContent, Status: StatusFailed}
	}

	metrics.IncTopicProcessed()
	return TopicResult{TopicNumber: topic.Number, Content: CleanResponse(completion.Content), Status: StatusSuccess}
}

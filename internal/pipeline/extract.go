package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/resilience"
)

// TableExtraction is the outcome of running both backends over one table: the
// verdict plus the authoritative candidate list. When the secondary backend
// parsed successfully its list is authoritative (disagreement is a signal for
// human attention, not a reason to discard it); only when the secondary fails
// does the primary list take over.
type TableExtraction struct {
	Table      model.Table
	Verdict    model.Verdict
	Candidates []model.AssetCandidate
}

// ExtractorConfig tunes the dual-backend extractor.
type ExtractorConfig struct {
	Language    model.Language
	AssetsKnown bool

	// RequestsPerSecond throttles backend calls across the whole run.
	// Zero or negative means no throttle.
	RequestsPerSecond float64

	Retry resilience.RetryConfig
}

// Extractor runs the same prompt through a primary and a secondary backend
// and compares their answers. Safe for concurrent use across tables; the only
// shared state is the rate limiter and the check counter.
type Extractor struct {
	primary   Backend
	secondary Backend
	cfg       ExtractorConfig
	limiter   *rate.Limiter
	checks    atomic.Int64
}

// NewExtractor builds an extractor over the two backends.
func NewExtractor(primary, secondary Backend, cfg ExtractorConfig) *Extractor {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Extractor{
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// ExtractTable runs both backends over one table and computes the verdict.
// Backend failures degrade to an empty candidate list for that backend and
// never abort the table; the returned error covers only local failures such
// as an invalid language or a canceled context.
func (e *Extractor) ExtractTable(ctx context.Context, table model.Table) (TableExtraction, error) {
	prompt, err := BuildPrompt(e.cfg.Language, e.cfg.AssetsKnown, table)
	if err != nil {
		return TableExtraction{}, err
	}

	primary, _, err := e.complete(ctx, e.primary, prompt, table.Name)
	if err != nil {
		return TableExtraction{}, err
	}
	secondary, secondaryParsed, err := e.complete(ctx, e.secondary, prompt, table.Name)
	if err != nil {
		return TableExtraction{}, err
	}

	verdict := computeVerdict(primary, secondary, secondaryParsed)
	if verdict == model.VerdictDisagreed || verdict == model.VerdictSecondaryEmptyPrimaryNonEmpty {
		e.checks.Add(1)
	}

	candidates := secondary
	switch verdict {
	case model.VerdictSecondaryParseFailed:
		candidates = primary
	case model.VerdictSecondaryEmptyPrimaryNonEmpty:
		candidates = nil
	}

	zap.L().Info("table extracted",
		zap.String("table", table.Name),
		zap.Stringer("verdict", verdict),
		zap.Int("primary_assets", len(primary)),
		zap.Int("secondary_assets", len(secondary)),
	)

	return TableExtraction{Table: table, Verdict: verdict, Candidates: candidates}, nil
}

// complete calls one backend and parses its answer. The bool reports whether
// the answer was usable; transport and parse failures both degrade to an empty
// list so a single flaky table never aborts the batch.
func (e *Extractor) complete(ctx context.Context, b Backend, prompt, tableName string) ([]model.AssetCandidate, bool, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, false, eris.Wrap(err, "pipeline: rate limiter")
	}

	retry := e.cfg.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(b.Name(), "complete")
	}
	text, err := resilience.Retry(ctx, retry, func(ctx context.Context) (string, error) {
		return b.Complete(ctx, prompt)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, eris.Wrap(err, "pipeline: backend call canceled")
		}
		zap.L().Warn("backend call failed, treating as empty answer",
			zap.String("backend", b.Name()),
			zap.String("table", tableName),
			zap.Error(err),
		)
		return nil, false, nil
	}

	candidates, err := parseAssets(b.Name(), text)
	if err != nil {
		zap.L().Warn("backend answer was not valid JSON",
			zap.String("backend", b.Name()),
			zap.String("table", tableName),
			zap.Error(err),
		)
		return nil, false, nil
	}
	return candidates, true, nil
}

// computeVerdict applies the agreement rule: same list length and same count
// sum means agreement. Content equality is deliberately not checked; matching
// lengths and sums with different assets still count as agreement, which is a
// known-weak criterion the review stage compensates for.
func computeVerdict(primary, secondary []model.AssetCandidate, secondaryParsed bool) model.Verdict {
	if !secondaryParsed {
		return model.VerdictSecondaryParseFailed
	}
	if len(secondary) == 0 && len(primary) > 0 {
		return model.VerdictSecondaryEmptyPrimaryNonEmpty
	}
	if len(primary) == len(secondary) && countSum(primary) == countSum(secondary) {
		return model.VerdictAgreed
	}
	return model.VerdictDisagreed
}

func countSum(candidates []model.AssetCandidate) int {
	total := 0
	for _, c := range candidates {
		total += c.Count
	}
	return total
}

// CheckCount returns how many tables were flagged for human attention so far
// in this run. Used for the end-of-run summary log.
func (e *Extractor) CheckCount() int64 {
	return e.checks.Load()
}

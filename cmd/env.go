package main

import (
	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/pipeline"
	"github.com/RoelRotti/legionella-exploration-milestone/internal/resilience"
	"github.com/RoelRotti/legionella-exploration-milestone/pkg/anthropic"
	"github.com/RoelRotti/legionella-exploration-milestone/pkg/openai"
	"github.com/RoelRotti/legionella-exploration-milestone/pkg/pdfservices"
)

// newRunner wires the pipeline from configuration. One runner (and one set of
// API clients) per invocation.
func newRunner() (*pipeline.Runner, error) {
	lang := model.Language(cfg.Pipeline.Language)
	if !lang.Valid() {
		return nil, eris.Errorf("unsupported language %q (use english or nederlands)", cfg.Pipeline.Language)
	}
	retry := resilience.DefaultRetryConfig()
	if cfg.Pipeline.RetryAttempts > 0 {
		retry.MaxAttempts = cfg.Pipeline.RetryAttempts
	}

	primary := pipeline.NewOpenAIBackend(
		openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
		),
		cfg.OpenAI.Model,
	)
	secondary := pipeline.NewAnthropicBackend(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.SonnetModel,
		cfg.Anthropic.MaxTokens,
	)

	extractor := pipeline.NewExtractor(primary, secondary, pipeline.ExtractorConfig{
		Language:          lang,
		AssetsKnown:       cfg.Pipeline.AssetsKnown,
		RequestsPerSecond: cfg.Pipeline.RequestsPerSecond,
		Retry:             retry,
	})

	converter := pipeline.NewConverter(
		pdfservices.NewClient(cfg.PDFServices.Key,
			pdfservices.WithBaseURL(cfg.PDFServices.BaseURL),
		),
		retry,
	)

	return pipeline.NewRunner(pipeline.Layout{Root: cfg.Pipeline.OutputDir}, converter, extractor), nil
}

// requireBackendKeys guards the commands that actually call the external
// services; multiply and compare work offline and skip this.
func requireBackendKeys() error {
	if cfg.OpenAI.Key == "" {
		return eris.New("openai.key is not configured")
	}
	if cfg.Anthropic.Key == "" {
		return eris.New("anthropic.key is not configured")
	}
	if cfg.PDFServices.Key == "" {
		return eris.New("pdfservices.key is not configured")
	}
	return nil
}

package analyzer

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/prompt"
	"cvmatch-backend/internal/shared/telemetry"
	"cvmatch-backend/internal/shared/util"
)

const (
	// analysisTemperature favors determinism for scoring.
	analysisTemperature = 0.2
	// rewriteTemperature favors fluency for the rewritten CV.
	rewriteTemperature = 0.4

	defaultCacheSize = 128
)

// Outcome is the result of processing one submission.
type Outcome struct {
	Analysis    string
	RewrittenCV *string
	// RewriteErr is set when a requested rewrite failed while the analysis
	// succeeded. The submission still counts as successful.
	RewriteErr error
}

// Service composes prompts, calls the LLM, and caches analysis results.
type Service struct {
	LLM     llm.Generator
	Prompts *prompt.Store
	// Model and BackupModel select the primary and fallback models. Empty
	// values defer to the client's provider default.
	Model       string
	BackupModel string

	cache *lru.Cache[string, string]
}

// NewService constructs a Service with a bounded analysis cache.
func NewService(gen llm.Generator, prompts *prompt.Store, model, backupModel string) *Service {
	cache, err := lru.New[string, string](defaultCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Service{
		LLM:         gen,
		Prompts:     prompts,
		Model:       model,
		BackupModel: backupModel,
		cache:       cache,
	}
}

// AnalyzeCV analyzes a CV against a job description. Identical prompts hit
// the in-process cache instead of the provider.
func (s *Service) AnalyzeCV(ctx context.Context, cvText, jdText, language string) (string, error) {
	tmpl, err := s.Prompts.Get(language, prompt.TaskAnalysis)
	if err != nil {
		return "", err
	}
	p := prompt.Render(tmpl, cvText, jdText)

	key := util.HashPrompt(p)
	if cached, ok := s.cache.Get(key); ok {
		telemetry.Info("analyzer.cache_hit", map[string]any{"prompt_hash": key[:12]})
		return cached, nil
	}

	out, err := s.generate(ctx, p, analysisTemperature)
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}
	s.cache.Add(key, out)

	telemetry.Info("analyzer.analysis_done", map[string]any{
		"language":     language,
		"result_chars": len(out),
	})
	return out, nil
}

// RewriteCV rewrites a CV for a job description. Rewrites are creative
// output and never cached, even for identical inputs.
func (s *Service) RewriteCV(ctx context.Context, cvText, jdText, language string) (string, error) {
	tmpl, err := s.Prompts.Get(language, prompt.TaskRewrite)
	if err != nil {
		return "", err
	}
	p := prompt.Render(tmpl, cvText, jdText)

	out, err := s.generate(ctx, p, rewriteTemperature)
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}

	telemetry.Info("analyzer.rewrite_done", map[string]any{
		"language":     language,
		"result_chars": len(out),
	})
	return out, nil
}

// ProcessSubmission runs the analysis and, when requested, the rewrite
// concurrently. Analysis failure fails the submission; rewrite failure
// degrades to analysis-only and is reported via Outcome.RewriteErr.
func (s *Service) ProcessSubmission(ctx context.Context, cvText, jdText, language string, rewrite bool) (Outcome, error) {
	telemetry.Info("analyzer.submission", map[string]any{
		"cv_chars": len(cvText),
		"jd_chars": len(jdText),
		"language": language,
		"rewrite":  rewrite,
	})

	var outcome Outcome

	if !rewrite {
		analysis, err := s.AnalyzeCV(ctx, cvText, jdText, language)
		if err != nil {
			return Outcome{}, err
		}
		outcome.Analysis = analysis
		return outcome, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		analysis, err := s.AnalyzeCV(gctx, cvText, jdText, language)
		if err != nil {
			return err
		}
		outcome.Analysis = analysis
		return nil
	})
	g.Go(func() error {
		rewritten, err := s.RewriteCV(gctx, cvText, jdText, language)
		if err != nil {
			// Soft failure: keep the submission alive.
			outcome.RewriteErr = err
			telemetry.Warn("analyzer.rewrite_failed", map[string]any{"error": err.Error()})
			return nil
		}
		outcome.RewrittenCV = &rewritten
		return nil
	})

	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func (s *Service) generate(ctx context.Context, p string, temperature float64) (string, error) {
	if s.BackupModel != "" {
		if fg, ok := s.LLM.(llm.FallbackGenerator); ok {
			return fg.GenerateWithFallback(ctx, p, temperature, s.Model, s.BackupModel)
		}
	}
	return s.LLM.Generate(ctx, p, temperature, s.Model)
}

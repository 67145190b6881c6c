package analyzer

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/prompt"
)

// fakeGenerator returns canned output per temperature and records calls.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   []string
	delay   time.Duration
	respond func(p string, temperature float64) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, p string, temperature float64, model string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.respond != nil {
		return f.respond(p, temperature)
	}
	if temperature == analysisTemperature {
		return "analysis output", nil
	}
	return "rewritten cv", nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestService(gen llm.Generator) *Service {
	return NewService(gen, prompt.NewStore(), "", "")
}

func TestProcessSubmissionAnalysisOnly(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(gen)

	out, err := svc.ProcessSubmission(context.Background(), "my cv", "the jd", "en", false)
	if err != nil {
		t.Fatalf("ProcessSubmission error: %v", err)
	}
	if out.Analysis != "analysis output" {
		t.Fatalf("unexpected analysis: %q", out.Analysis)
	}
	if out.RewrittenCV != nil {
		t.Fatal("rewrite should be absent")
	}
	if got := gen.callCount(); got != 1 {
		t.Fatalf("expected exactly one LLM call, got %d", got)
	}
}

func TestProcessSubmissionWithRewrite(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(gen)

	out, err := svc.ProcessSubmission(context.Background(), "my cv", "the jd", "en", true)
	if err != nil {
		t.Fatalf("ProcessSubmission error: %v", err)
	}
	if out.Analysis != "analysis output" {
		t.Fatalf("unexpected analysis: %q", out.Analysis)
	}
	if out.RewrittenCV == nil || *out.RewrittenCV != "rewritten cv" {
		t.Fatalf("unexpected rewrite: %v", out.RewrittenCV)
	}
	if out.RewriteErr != nil {
		t.Fatalf("unexpected rewrite error: %v", out.RewriteErr)
	}
	if got := gen.callCount(); got != 2 {
		t.Fatalf("expected two LLM calls, got %d", got)
	}
}

func TestProcessSubmissionRunsCallsConcurrently(t *testing.T) {
	gen := &fakeGenerator{delay: 150 * time.Millisecond}
	svc := newTestService(gen)

	start := time.Now()
	if _, err := svc.ProcessSubmission(context.Background(), "cv", "jd", "en", true); err != nil {
		t.Fatalf("ProcessSubmission error: %v", err)
	}
	elapsed := time.Since(start)

	// Two sequential calls would take at least 300ms.
	if elapsed >= 280*time.Millisecond {
		t.Fatalf("calls appear sequential: took %v", elapsed)
	}
}

func TestAnalysisCacheHit(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(gen)
	ctx := context.Background()

	first, err := svc.AnalyzeCV(ctx, "cv", "jd", "en")
	if err != nil {
		t.Fatalf("AnalyzeCV error: %v", err)
	}
	second, err := svc.AnalyzeCV(ctx, "cv", "jd", "en")
	if err != nil {
		t.Fatalf("AnalyzeCV error: %v", err)
	}
	if first != second {
		t.Fatalf("cache returned different result: %q vs %q", first, second)
	}
	if got := gen.callCount(); got != 1 {
		t.Fatalf("expected cache hit to skip the network, got %d calls", got)
	}

	// Different inputs miss the cache.
	if _, err := svc.AnalyzeCV(ctx, "other cv", "jd", "en"); err != nil {
		t.Fatalf("AnalyzeCV error: %v", err)
	}
	if got := gen.callCount(); got != 2 {
		t.Fatalf("expected cache miss for new input, got %d calls", got)
	}
}

func TestRewriteNeverCached(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(gen)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.RewriteCV(ctx, "cv", "jd", "en"); err != nil {
			t.Fatalf("RewriteCV error: %v", err)
		}
	}
	if got := gen.callCount(); got != 3 {
		t.Fatalf("identical rewrites must each call the LLM, got %d calls", got)
	}
}

func TestAnalysisFailureIsHard(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(p string, temperature float64) (string, error) {
			if temperature == analysisTemperature {
				return "", &llm.Error{Kind: llm.KindHTTPStatus, Status: 500, Message: "boom"}
			}
			return "rewritten cv", nil
		},
	}
	svc := newTestService(gen)

	_, err := svc.ProcessSubmission(context.Background(), "cv", "jd", "en", true)
	if err == nil {
		t.Fatal("expected hard failure when analysis fails")
	}
	if !llm.IsKind(err, llm.KindHTTPStatus) {
		t.Fatalf("expected http_status kind, got %v", err)
	}
}

func TestRewriteFailureIsSoft(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(p string, temperature float64) (string, error) {
			if temperature == rewriteTemperature {
				return "", &llm.Error{Kind: llm.KindTransport, Message: "timeout"}
			}
			return "analysis output", nil
		},
	}
	svc := newTestService(gen)

	out, err := svc.ProcessSubmission(context.Background(), "cv", "jd", "en", true)
	if err != nil {
		t.Fatalf("rewrite failure must not fail the submission: %v", err)
	}
	if out.Analysis != "analysis output" {
		t.Fatalf("unexpected analysis: %q", out.Analysis)
	}
	if out.RewrittenCV != nil {
		t.Fatal("rewrite text should be absent after failure")
	}
	if out.RewriteErr == nil {
		t.Fatal("expected rewrite warning signal")
	}
}

func TestPromptsContainInputs(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(gen)

	if _, err := svc.AnalyzeCV(context.Background(), "UNIQUE_CV_MARKER", "UNIQUE_JD_MARKER", "en"); err != nil {
		t.Fatalf("AnalyzeCV error: %v", err)
	}
	gen.mu.Lock()
	sent := gen.calls[0]
	gen.mu.Unlock()
	if !strings.Contains(sent, "UNIQUE_CV_MARKER") || !strings.Contains(sent, "UNIQUE_JD_MARKER") {
		t.Fatal("prompt missing substituted CV or JD text")
	}
}

// fallbackFake also implements llm.FallbackGenerator.
type fallbackFake struct {
	fakeGenerator
	fallbackCalls atomic.Int64
}

func (f *fallbackFake) GenerateWithFallback(ctx context.Context, p string, temperature float64, primary, backup string) (string, error) {
	f.fallbackCalls.Add(1)
	return f.Generate(ctx, p, temperature, backup)
}

func TestBackupModelUsesFallbackPath(t *testing.T) {
	gen := &fallbackFake{}
	svc := NewService(gen, prompt.NewStore(), "primary-model", "backup-model")

	if _, err := svc.AnalyzeCV(context.Background(), "cv", "jd", "en"); err != nil {
		t.Fatalf("AnalyzeCV error: %v", err)
	}
	if gen.fallbackCalls.Load() != 1 {
		t.Fatal("expected fallback-capable path to be used when a backup model is configured")
	}
}

package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cvmatch-backend/internal/analyzer"
	"cvmatch-backend/internal/render"
	"cvmatch-backend/internal/reports"
	"cvmatch-backend/internal/shared/telemetry"
)

// ErrInvalidInput marks submissions rejected before any LLM call.
var ErrInvalidInput = errors.New("invalid submission")

// Request is one validated CV/JD submission.
type Request struct {
	CVText   string
	JDText   string
	Language string
	Rewrite  bool
}

// Result is the caller-facing outcome of a successful submission. ReportID
// is empty when the report could not be persisted; the analysis is still
// returned in that case.
type Result struct {
	ReportID      string
	AnalysisHTML  string
	RewrittenHTML *string
	Warnings      []string
}

// Service drives one submission through the analyzer, the report store,
// and the renderer. It is the single orchestration contract consumed by
// the HTTP layer.
type Service struct {
	Analyzer        *analyzer.Service
	Reports         *reports.Store
	MaxContentBytes int
}

// Submit processes a submission end to end. Analysis failure is a hard
// error; rewrite and storage failures degrade to warnings.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	req.CVText = strings.TrimSpace(req.CVText)
	req.JDText = strings.TrimSpace(req.JDText)
	if err := s.validate(req); err != nil {
		return Result{}, err
	}

	outcome, err := s.Analyzer.ProcessSubmission(ctx, req.CVText, req.JDText, req.Language, req.Rewrite)
	if err != nil {
		return Result{}, fmt.Errorf("analysis failed: %w", err)
	}

	result := Result{
		AnalysisHTML: render.ToSafeHTML(outcome.Analysis),
	}
	if outcome.RewrittenCV != nil {
		html := render.ToSafeHTML(*outcome.RewrittenCV)
		result.RewrittenHTML = &html
	}
	if outcome.RewriteErr != nil {
		result.Warnings = append(result.Warnings, "CV rewrite failed; showing the analysis only.")
	}

	reportID, err := s.Reports.Save(req.CVText, req.JDText, outcome.Analysis, outcome.RewrittenCV, req.Language)
	if err != nil {
		// Results are still shown; the report is just not downloadable.
		telemetry.Warn("submit.report_not_saved", map[string]any{"error": err.Error()})
		result.Warnings = append(result.Warnings, "Results could not be saved as a report.")
	} else {
		result.ReportID = reportID
	}

	return result, nil
}

func (s *Service) validate(req Request) error {
	if req.CVText == "" {
		return fmt.Errorf("%w: CV text is required", ErrInvalidInput)
	}
	if req.JDText == "" {
		return fmt.Errorf("%w: job description text is required", ErrInvalidInput)
	}
	if s.MaxContentBytes > 0 {
		if len(req.CVText) > s.MaxContentBytes {
			return fmt.Errorf("%w: CV text exceeds %d bytes", ErrInvalidInput, s.MaxContentBytes)
		}
		if len(req.JDText) > s.MaxContentBytes {
			return fmt.Errorf("%w: job description exceeds %d bytes", ErrInvalidInput, s.MaxContentBytes)
		}
	}
	return nil
}

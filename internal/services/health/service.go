package health

import "os"

// Service encapsulates health-related checks.
type Service struct {
	ReportsDir    string
	FeedbackDir   string
	LLMConfigured bool
}

// NewService constructs a new health service.
func NewService(reportsDir, feedbackDir string, llmConfigured bool) *Service {
	return &Service{
		ReportsDir:    reportsDir,
		FeedbackDir:   feedbackDir,
		LLMConfigured: llmConfigured,
	}
}

// Status returns the health payload. The process is live as long as it can
// answer; storage and LLM readiness are reported as separate flags.
func (s *Service) Status() map[string]bool {
	return map[string]bool{
		"ok":            true,
		"llmConfigured": s.LLMConfigured,
		"reportsDir":    dirExists(s.ReportsDir),
		"feedbackDir":   dirExists(s.FeedbackDir),
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

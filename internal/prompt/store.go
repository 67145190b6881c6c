package prompt

import (
	"errors"
	"fmt"
	"strings"

	"cvmatch-backend/internal/shared/telemetry"
)

// Task identifies a prompt template kind.
type Task string

const (
	TaskAnalysis Task = "analysis"
	TaskRewrite  Task = "rewrite"
)

// DefaultLanguage is the fallback when a language has no template set.
const DefaultLanguage = "en"

// ErrTemplateMissing indicates a task has no template under the resolved
// language. This is a configuration defect, not a user error.
var ErrTemplateMissing = errors.New("prompt template missing")

// Store holds per-language, per-task prompt templates. Built once at
// startup and never mutated afterwards.
type Store struct {
	templates map[string]map[Task]string
	labels    map[string]string
}

// NewStore builds the store with the built-in English and French templates.
func NewStore() *Store {
	return &Store{
		templates: map[string]map[Task]string{
			"en": {
				TaskAnalysis: analysisTemplateEN,
				TaskRewrite:  rewriteTemplateEN,
			},
			"fr": {
				TaskAnalysis: analysisTemplateFR,
				TaskRewrite:  rewriteTemplateFR,
			},
		},
		labels: map[string]string{
			"en": "English",
			"fr": "Français",
		},
	}
}

// Get returns the template for a language and task. Unknown languages fall
// back to English with a warning; an unknown task is a hard error.
func (s *Store) Get(language string, task Task) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	set, ok := s.templates[lang]
	if !ok {
		telemetry.Warn("prompt.language_fallback", map[string]any{
			"requested": language,
			"fallback":  DefaultLanguage,
		})
		lang = DefaultLanguage
		set = s.templates[lang]
	}
	tmpl, ok := set[task]
	if !ok {
		telemetry.Error("prompt.template_missing", map[string]any{
			"language": lang,
			"task":     string(task),
		})
		return "", fmt.Errorf("%w: %s/%s", ErrTemplateMissing, lang, task)
	}
	return tmpl, nil
}

// Render substitutes the CV and job description into a template. The text
// is inserted verbatim; prompt-injection handling is left to the provider.
func Render(template, cv, jd string) string {
	out := strings.ReplaceAll(template, "{cv}", cv)
	out = strings.ReplaceAll(out, "{jd}", jd)
	return out
}

// Label returns a human-readable name for a language code, falling back to
// the code itself.
func (s *Store) Label(language string) string {
	if label, ok := s.labels[strings.ToLower(strings.TrimSpace(language))]; ok {
		return label
	}
	return language
}

// Languages lists the registered language codes.
func (s *Store) Languages() []string {
	out := make([]string, 0, len(s.templates))
	for lang := range s.templates {
		out = append(out, lang)
	}
	return out
}

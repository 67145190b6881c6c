package reports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvmatch-backend/internal/render"
	"cvmatch-backend/internal/shared/telemetry"
)

const (
	idPrefix      = "report_"
	fileExt       = ".md"
	tmpSuffix     = ".tmp"
	idTimeLayout  = "2006-01-02T15-04-05Z"
	defaultLimit  = 100
	suffixHexLen  = 8
	DefaultMaxAge = 30 * 24 * time.Hour
)

var (
	// ErrNotFound indicates the report id has no stored artifact.
	ErrNotFound = errors.New("report not found")
	// ErrStorageFailure indicates the artifact could not be written. The
	// caller is expected to degrade gracefully rather than fail the
	// submission.
	ErrStorageFailure = errors.New("report storage failure")
)

// Meta describes one stored report.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
}

// Store persists submissions and their LLM outputs as immutable markdown
// artifacts on the local filesystem. The store exclusively owns the on-disk
// representation; callers only hold report ids.
type Store struct {
	dir       string
	retention time.Duration
	labels    map[string]string

	// now is injectable for retention tests.
	now func() time.Time
}

// NewStore creates a store rooted at dir with the given retention window.
func NewStore(dir string, retention time.Duration) (*Store, error) {
	if retention <= 0 {
		retention = DefaultMaxAge
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &Store{
		dir:       dir,
		retention: retention,
		labels:    map[string]string{"en": "English", "fr": "Français"},
		now:       time.Now,
	}, nil
}

// Save writes a new report artifact and returns its id. The write is
// all-or-nothing: content lands in a temp file first and is renamed into
// place, so a crashed write never leaves a partial artifact behind.
func (s *Store) Save(cvText, jdText, analysisText string, rewrittenCV *string, language string) (string, error) {
	createdAt := s.now().UTC()
	id := s.newID(createdAt)
	content := s.compose(createdAt, language, cvText, jdText, analysisText, rewrittenCV)

	if err := s.writeAtomic(id+fileExt, content); err != nil {
		telemetry.Error("reports.save_failed", map[string]any{"id": id, "error": err.Error()})
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	telemetry.Info("reports.saved", map[string]any{"id": id, "bytes": len(content)})
	return id, nil
}

// Get returns the raw markdown content of a report.
func (s *Store) Get(id string) (string, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read report %s: %w", id, err)
	}
	return string(data), nil
}

// GetHTML returns the report rendered as sanitized HTML.
func (s *Store) GetHTML(id string) (string, error) {
	content, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return render.ToSafeHTML(content), nil
}

// List returns report metadata, newest first, bounded by limit.
func (s *Store) List(limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var out []Meta
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, idPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		createdAt, ok := createdAtFromID(id)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Meta{ID: id, CreatedAt: createdAt, SizeBytes: info.Size()})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Cleanup deletes artifacts older than the retention window and returns the
// number removed. Individual deletion failures are logged and skipped, and
// repeated sweeps are idempotent. Temp files from in-flight saves are never
// touched, so running concurrently with Save is safe.
func (s *Store) Cleanup() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		telemetry.Error("reports.cleanup_failed", map[string]any{"error": err.Error()})
		return 0
	}

	cutoff := s.now().UTC().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, idPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		createdAt, ok := createdAtFromID(strings.TrimSuffix(name, fileExt))
		if !ok {
			continue
		}
		if !createdAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			telemetry.Warn("reports.cleanup_skip", map[string]any{"file": name, "error": err.Error()})
			continue
		}
		removed++
	}

	telemetry.Info("reports.cleanup_done", map[string]any{"removed": removed})
	return removed
}

// newID derives a sortable, human-debuggable identifier from the creation
// instant plus a short random suffix that disambiguates same-second saves.
func (s *Store) newID(createdAt time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixHexLen]
	return idPrefix + createdAt.Format(idTimeLayout) + "_" + suffix
}

func createdAtFromID(id string) (time.Time, bool) {
	rest := strings.TrimPrefix(id, idPrefix)
	if idx := strings.LastIndex(rest, "_"); idx > 0 {
		rest = rest[:idx]
	}
	t, err := time.Parse(idTimeLayout, rest)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Store) pathFor(id string) (string, error) {
	clean := filepath.Clean(id)
	if clean != id || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || !strings.HasPrefix(id, idPrefix) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

func (s *Store) writeAtomic(name, content string) error {
	tmp := filepath.Join(s.dir, name+tmpSuffix)
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store) compose(createdAt time.Time, language, cvText, jdText, analysisText string, rewrittenCV *string) string {
	label := language
	if l, ok := s.labels[strings.ToLower(language)]; ok {
		label = l
	}

	var b strings.Builder
	b.WriteString("# CV Analysis Report\n\n")
	fmt.Fprintf(&b, "*Generated on: %s*\n", createdAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "*Language: %s*\n\n", label)
	b.WriteString("## Analysis Summary\n\n")
	b.WriteString(analysisText)
	b.WriteString("\n")
	if rewrittenCV != nil {
		b.WriteString("\n## Rewritten CV Optimized for ATS\n\n")
		b.WriteString(*rewrittenCV)
		b.WriteString("\n")
	}
	b.WriteString("\n## Original CV\n\n```\n")
	b.WriteString(cvText)
	b.WriteString("\n```\n\n## Original Job Description\n\n```\n")
	b.WriteString(jdText)
	b.WriteString("\n```\n")
	return b.String()
}

package feedback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cvmatch-backend/internal/shared/telemetry"
	"cvmatch-backend/internal/shared/util"
)

const idTimeLayout = "2006-01-02T15-04-05Z"

// ErrStorageFailure indicates the feedback entry could not be written.
var ErrStorageFailure = errors.New("feedback storage failure")

// Entry is one user feedback submission.
type Entry struct {
	Contact  string
	Comments string
	Rating   int
}

// Store persists feedback entries as markdown files. Entries are never
// expired.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a feedback store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create feedback dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Save writes one feedback entry and returns its filename.
func (s *Store) Save(entry Entry) (string, error) {
	createdAt := s.now().UTC()
	slug := util.ContactSlug(entry.Contact)
	name := fmt.Sprintf("feedback_%s_%s.md", createdAt.Format(idTimeLayout), slug)

	contact := strings.TrimSpace(entry.Contact)
	if contact == "" {
		contact = "Not provided"
	}

	var b strings.Builder
	b.WriteString("# User Feedback\n\n")
	fmt.Fprintf(&b, "Date: %s\n", createdAt.Format("2006-01-02 15:04"))
	if entry.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %d/5\n", entry.Rating)
	}
	fmt.Fprintf(&b, "Email: %s\n\n", contact)
	b.WriteString("## Feedback:\n\n")
	b.WriteString(entry.Comments)
	b.WriteString("\n")

	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		telemetry.Error("feedback.save_failed", map[string]any{"error": err.Error()})
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp)
		telemetry.Error("feedback.save_failed", map[string]any{"error": err.Error()})
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	telemetry.Info("feedback.saved", map[string]any{"file": name})
	return name, nil
}

// Package audit retains intermediate workflow artifacts: one JSON document
// per draft revision and per critique feedback, plus a unified diff between
// consecutive drafts. Storage goes through afs, so file:///, mem:// and cloud
// schemes all work. Retention is optional collaborator behaviour; the engine
// never depends on it succeeding.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/scribeflow/scribeflow/model"
)

// Store persists run artifacts under baseURL/<runID>/.
type Store struct {
	fs      afs.Service
	baseURL string
}

// New returns a store rooted at baseURL (e.g. file:///var/lib/scribeflow or
// mem://localhost/audit).
func New(baseURL string) *Store {
	return &Store{fs: afs.New(), baseURL: baseURL}
}

// RecordIteration saves the draft and feedback for one revision cycle. When a
// prior draft is supplied a unified diff of the two versions is stored next
// to them.
func (s *Store) RecordIteration(ctx context.Context, runID string, iteration int, draft, prior *model.Draft, feedback *model.Feedback) error {
	if draft == nil {
		return fmt.Errorf("cannot record nil draft")
	}
	if err := s.uploadJSON(ctx, runID, fmt.Sprintf("draft-%02d.json", iteration), draft); err != nil {
		return err
	}
	if feedback != nil {
		if err := s.uploadJSON(ctx, runID, fmt.Sprintf("feedback-%02d.json", iteration), feedback); err != nil {
			return err
		}
	}
	if prior == nil {
		return nil
	}
	diff, err := Diff(prior, draft, iteration)
	if err != nil {
		return err
	}
	return s.upload(ctx, runID, fmt.Sprintf("draft-%02d.diff", iteration), []byte(diff))
}

// RecordResult saves the terminal result document.
func (s *Store) RecordResult(ctx context.Context, runID string, result *model.Result) error {
	if result == nil {
		return fmt.Errorf("cannot record nil result")
	}
	return s.uploadJSON(ctx, runID, "result.json", result)
}

// LoadResult reads back a previously recorded result.
func (s *Store) LoadResult(ctx context.Context, runID string) (*model.Result, error) {
	data, err := s.fs.DownloadWithURL(ctx, url.Join(s.baseURL, runID, "result.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load result for run %s: %w", runID, err)
	}
	result := &model.Result{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result for run %s: %w", runID, err)
	}
	return result, nil
}

func (s *Store) uploadJSON(ctx context.Context, runID, name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.upload(ctx, runID, name, data)
}

func (s *Store) upload(ctx context.Context, runID, name string, data []byte) error {
	location := url.Join(s.baseURL, runID, name)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", location, err)
	}
	return nil
}

// Diff renders a unified diff between two draft versions.
func Diff(prior, draft *model.Draft, iteration int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(prior.Text()),
		B:        difflib.SplitLines(draft.Text()),
		FromFile: fmt.Sprintf("draft-%02d", iteration-1),
		ToFile:   fmt.Sprintf("draft-%02d", iteration),
		Context:  3,
	}
	diff, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to diff drafts: %w", err)
	}
	return diff, nil
}

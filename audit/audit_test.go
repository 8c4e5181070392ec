package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/scribeflow/scribeflow/model"
)

const testBaseURL = "mem://localhost/audit"

func TestRecordIteration(t *testing.T) {
	ctx := context.Background()
	store := New(testBaseURL)

	initial := &model.Draft{Title: "v1", Introduction: "first intro", Conclusion: "end"}
	assert.NoError(t, store.RecordIteration(ctx, "run-1", 0, initial, nil, nil))

	revised := &model.Draft{Title: "v2", Introduction: "second intro", Conclusion: "end"}
	feedback := &model.Feedback{Quality: 6, Approval: model.NeedsRevision, Summary: "tighten"}
	assert.NoError(t, store.RecordIteration(ctx, "run-1", 1, revised, initial, feedback))

	fs := afs.New()
	for _, name := range []string{"draft-00.json", "draft-01.json", "feedback-01.json", "draft-01.diff"} {
		ok, err := fs.Exists(ctx, url.Join(testBaseURL, "run-1", name))
		assert.NoError(t, err, name)
		assert.True(t, ok, name)
	}
	ok, err := fs.Exists(ctx, url.Join(testBaseURL, "run-1", "feedback-00.json"))
	assert.NoError(t, err)
	assert.False(t, ok, "no feedback file when the initial draft has no feedback")

	data, err := fs.DownloadWithURL(ctx, url.Join(testBaseURL, "run-1", "draft-01.diff"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "-first intro")
	assert.Contains(t, string(data), "+second intro")

	assert.Error(t, store.RecordIteration(ctx, "run-1", 2, nil, nil, nil))
}

func TestRecordAndLoadResult(t *testing.T) {
	ctx := context.Background()
	store := New(testBaseURL)

	result := &model.Result{
		Draft:     &model.Draft{Title: "final"},
		Revisions: 2,
		Quality:   8.1,
		Status:    model.StageCompleted,
	}
	assert.NoError(t, store.RecordResult(ctx, "run-2", result))

	loaded, err := store.LoadResult(ctx, "run-2")
	assert.NoError(t, err)
	assert.Equal(t, result.Quality, loaded.Quality)
	assert.Equal(t, result.Revisions, loaded.Revisions)
	assert.Equal(t, "final", loaded.Draft.Title)

	_, err = store.LoadResult(ctx, "missing-run")
	assert.Error(t, err)

	assert.Error(t, store.RecordResult(ctx, "run-2", nil))
}

func TestDiff(t *testing.T) {
	prior := &model.Draft{Introduction: "unchanged", Sections: []string{"old line"}}
	draft := &model.Draft{Introduction: "unchanged", Sections: []string{"new line"}}

	diff, err := Diff(prior, draft, 1)
	assert.NoError(t, err)
	assert.Contains(t, diff, "--- draft-00")
	assert.Contains(t, diff, "+++ draft-01")
	assert.Contains(t, diff, "-old line")
	assert.Contains(t, diff, "+new line")
}

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	if filepath.Base(path) == "fail.csv" {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	_, err := New("", func(context.Context, string) error { return nil })
	assert.Error(t, err)

	_, err = New(dir, nil)
	assert.Error(t, err)

	_, err = New(filepath.Join(dir, "missing"), func(context.Context, string) error { return nil })
	assert.Error(t, err)

	f := filepath.Join(dir, "file.csv")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0600))
	_, err = New(f, func(context.Context, string) error { return nil })
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	w, err := New(t.TempDir(), func(context.Context, string) error { return nil })
	require.NoError(t, err)

	assert.True(t, w.Matches("/in/jane.xlsx"))
	assert.True(t, w.Matches("/in/JANE.CSV"))
	assert.True(t, w.Matches("raw.txt"))
	assert.False(t, w.Matches("/in/jane.xls"))
	assert.False(t, w.Matches("/in/.hidden.csv"))
	assert.False(t, w.Matches("/in/~$jane.xlsx"))
	assert.False(t, w.Matches("/in/notes.pdf"))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.csv"), []byte("x"), 0600))

	rec := &recorder{}
	w, err := New(dir, rec.handle)
	require.NoError(t, err)
	w.Settle = 50 * time.Millisecond
	w.Existing = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "jane.csv"), []byte("a"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fail.csv"), []byte("a"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.pdf"), []byte("a"), 0600))

	assert.Eventually(t, func() bool {
		return len(rec.seen()) == 3
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.ElementsMatch(t, []string{"existing.csv", "jane.csv", "fail.csv"}, rec.seen())
}

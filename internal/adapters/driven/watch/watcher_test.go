package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight-cli/internal/core/domain"
)

// mockDocumentService records ingest calls.
type mockDocumentService struct {
	mu    sync.Mutex
	paths []string
}

func (m *mockDocumentService) Ingest(_ context.Context, name string, _ []byte) (*domain.Document, error) {
	return &domain.Document{ID: "doc", Name: name}, nil
}

func (m *mockDocumentService) IngestFile(_ context.Context, path string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	return &domain.Document{ID: "doc", Name: filepath.Base(path)}, nil
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockDocumentService) ingested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

func TestNew_RequiresDirectory(t *testing.T) {
	svc := &mockDocumentService{}

	_, err := New(svc, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = New(svc, file)
	assert.Error(t, err)
}

func TestRun_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	svc := &mockDocumentService{}

	watcher, err := New(svc, dir, WithSettleDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watch loop a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("policy content"), 0644))

	require.Eventually(t, func() bool {
		return len(svc.ingested()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, path, svc.ingested()[0])

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_IgnoresUnsupportedAndHidden(t *testing.T) {
	dir := t.TempDir()
	svc := &mockDocumentService{}

	watcher, err := New(svc, dir, WithSettleDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.docx"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.md"), []byte("covered"), 0644))

	require.Eventually(t, func() bool {
		return len(svc.ingested()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, svc.ingested()[0], "policy.md")

	cancel()
	<-done
}

func TestEventPath(t *testing.T) {
	dir := t.TempDir()
	supported := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(supported, []byte("x"), 0644))

	subdir := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(subdir, 0755))

	svc := &mockDocumentService{}
	watcher, err := New(svc, dir)
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  string
	}{
		{
			name:  "create supported file",
			event: fsnotify.Event{Name: supported, Op: fsnotify.Create},
			want:  supported,
		},
		{
			name:  "write supported file",
			event: fsnotify.Event{Name: supported, Op: fsnotify.Write},
			want:  supported,
		},
		{
			name:  "chmod ignored",
			event: fsnotify.Event{Name: supported, Op: fsnotify.Chmod},
			want:  "",
		},
		{
			name:  "remove ignored",
			event: fsnotify.Event{Name: supported, Op: fsnotify.Remove},
			want:  "",
		},
		{
			name:  "unsupported extension",
			event: fsnotify.Event{Name: filepath.Join(dir, "doc.docx"), Op: fsnotify.Create},
			want:  "",
		},
		{
			name:  "hidden file",
			event: fsnotify.Event{Name: filepath.Join(dir, ".doc.pdf"), Op: fsnotify.Create},
			want:  "",
		},
		{
			name:  "missing file",
			event: fsnotify.Event{Name: filepath.Join(dir, "gone.pdf"), Op: fsnotify.Create},
			want:  "",
		},
		{
			name:  "directory skipped",
			event: fsnotify.Event{Name: subdir, Op: fsnotify.Create},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watcher.eventPath(tt.event))
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{".hidden.txt", true},
		{"/inbox/.partial/file.pdf", true},
		{"/inbox/policy.pdf", false},
		{"policy.pdf", false},
		{"./policy.pdf", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isHidden(tt.path), "path %q", tt.path)
	}
}

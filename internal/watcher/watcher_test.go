package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a change")
		return ""
	}
}

func assertQuiet(t *testing.T, ch <-chan string) {
	t.Helper()
	select {
	case p := <-ch:
		t.Fatalf("unexpected change %q", p)
	case <-time.After(4 * testDebounce):
	}
}

func TestWatchDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "player.vert")
	writeFile(t, vert, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := watch(ctx, []string{vert}, testDebounce)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		writeFile(t, vert, "v2")
	}

	assert.Equal(t, vert, receive(t, ch))
	assertQuiet(t, ch)
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "player.vert")
	writeFile(t, vert, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := watch(ctx, []string{vert}, testDebounce)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	assertQuiet(t, ch)
}

func TestWatchSeesReplacedFile(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "player.frag")
	writeFile(t, frag, "f1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := watch(ctx, []string{frag}, testDebounce)
	require.NoError(t, err)

	tmp := filepath.Join(dir, "player.frag.tmp")
	writeFile(t, tmp, "f2")
	require.NoError(t, os.Rename(tmp, frag))

	assert.Equal(t, frag, receive(t, ch))
}

func TestWatchClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "skybox.vert")
	writeFile(t, p, "v")

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Watch(ctx, []string{p})
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "a.vert")})
	assert.Error(t, err)
}

package vangogh

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/vangogh/raw"
	"github.com/bodgit/vangogh/vg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"a.png",
		filepath.Join("sub", "b.PNG"),
		filepath.Join("sub", "deeper", "c.png"),
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, raw.WriteFile(path, patternImage(8, 6)))
	}

	// Hidden directories and other files are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755))
	require.NoError(t, raw.WriteFile(filepath.Join(dir, ".hidden", "d.png"), patternImage(2, 2)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	v := newTestVanGogh(t, io.Discard)
	require.NoError(t, v.Scan(dir))

	for _, f := range files {
		path := filepath.Join(dir, vgFilename(f))
		m, err := v.ReadFile(path)
		require.NoError(t, err, f)
		assert.Equal(t, uint32(8), m.Width)
		assert.Equal(t, uint32(6), m.Height)
	}

	assert.NoFileExists(t, filepath.Join(dir, ".hidden", "d.vg"))
	assert.NoFileExists(t, filepath.Join(dir, "notes.vg"))
}

func TestScanSkipsUpToDate(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "a.png")
	require.NoError(t, raw.WriteFile(src, patternImage(4, 4)))

	// A newer but bogus output is left alone
	dst := filepath.Join(dir, "a.vg")
	require.NoError(t, os.WriteFile(dst, []byte("stale"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(dst, future, future))

	require.NoError(t, newTestVanGogh(t, io.Discard).Scan(dir))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("stale"), b)

	// Once it's older it gets replaced
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(dst, past, past))

	require.NoError(t, newTestVanGogh(t, io.Discard).Scan(dir))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, vg.Size(4, 4), info.Size())
}

func TestScanError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("broken"), 0o644))

	assert.ErrorIs(t, newTestVanGogh(t, io.Discard).Scan(dir), raw.ErrUnsupported)
}

func TestScanMissing(t *testing.T) {
	assert.Error(t, newTestVanGogh(t, io.Discard).Scan(filepath.Join(t.TempDir(), "missing")))
}

func TestWaitForPipeline(t *testing.T) {
	stage := func(errs ...error) <-chan error {
		errc := make(chan error, len(errs))
		for _, err := range errs {
			errc <- err
		}
		close(errc)
		return errc
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, waitForPipeline(cancel, stage(), stage(nil), stage(nil, nil)))
	assert.NoError(t, ctx.Err())

	boom := errors.New("boom")
	assert.Equal(t, boom, waitForPipeline(cancel, stage(nil), stage(boom), stage()))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestVGFilename(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b.vg"), vgFilename(filepath.Join("a", "b.png")))
	assert.Equal(t, "c.vg", vgFilename("c"))
}

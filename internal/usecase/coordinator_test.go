package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/evany413/OCR-compare/internal/domain/port"
	"github.com/evany413/OCR-compare/internal/infra/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// selectiveExtractor fails extraction for one video and delegates the rest.
type selectiveExtractor struct {
	inner   fakeExtractor
	failFor string
}

func (s *selectiveExtractor) ExtractFrames(ctx context.Context, videoPath string, framesDir string, interval float64) (*port.FrameSet, error) {
	if filepath.Base(videoPath) == s.failFor {
		return nil, errors.New("moov atom not found")
	}
	return s.inner.ExtractFrames(ctx, videoPath, framesDir, interval)
}

func seedVideos(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func trackingFactory() (port.EngineFactory, func() []*fakeEngine) {
	var mu sync.Mutex
	var engines []*fakeEngine
	factory := func() (port.Engine, error) {
		mu.Lock()
		defer mu.Unlock()
		e := &fakeEngine{}
		engines = append(engines, e)
		return e, nil
	}
	snapshot := func() []*fakeEngine {
		mu.Lock()
		defer mu.Unlock()
		out := make([]*fakeEngine, len(engines))
		copy(out, engines)
		return out
	}
	return factory, snapshot
}

func newCoordinator(extractor port.FrameExtractor, factory port.EngineFactory, repo port.JobRepository, workers int) *Coordinator {
	processor := newProcessor(extractor, fsutil.NewResultWriter(), repo)
	return NewCoordinator(processor, factory, repo, workers, zap.NewNop())
}

func TestRunIsolatesFailingJob(t *testing.T) {
	root := t.TempDir()
	seedVideos(t, root, "a.mp4", "b.mp4", "c.mp4")
	extractor := &selectiveExtractor{inner: fakeExtractor{frames: 1, duration: 6.0}, failFor: "b.mp4"}
	factory, _ := trackingFactory()
	repo := &memoryRepo{}

	summary, err := newCoordinator(extractor, factory, repo, 2).Run(context.Background(), root, 5, "paddle", false)
	require.NoError(t, err)

	assert.Equal(t, &entity.RunSummary{Discovered: 3, Succeeded: 2, Failed: 1}, summary)
	assert.FileExists(t, filepath.Join(root, "ocr_output", "result_a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "ocr_output", "result_b.txt"))
	assert.FileExists(t, filepath.Join(root, "ocr_output", "result_c.txt"))
	assert.Len(t, repo.created, 3)
}

func TestRunEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	seedVideos(t, root, "readme.md")
	factory, snapshot := trackingFactory()

	summary, err := newCoordinator(&fakeExtractor{}, factory, nil, 2).Run(context.Background(), root, 5, "paddle", false)
	require.NoError(t, err)

	assert.Equal(t, &entity.RunSummary{}, summary)
	assert.Empty(t, snapshot())
}

func TestRunMissingRoot(t *testing.T) {
	factory, _ := trackingFactory()

	_, err := newCoordinator(&fakeExtractor{}, factory, nil, 2).Run(
		context.Background(), filepath.Join(t.TempDir(), "nope"), 5, "paddle", false)

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRunSingleWorkerProcessesInSortedOrder(t *testing.T) {
	root := t.TempDir()
	seedVideos(t, root, "c.mp4", "a.mp4", filepath.Join("sub", "b.mp4"))
	factory, snapshot := trackingFactory()

	summary, err := newCoordinator(&fakeExtractor{frames: 1, duration: 6.0}, factory, nil, 1).
		Run(context.Background(), root, 5, "paddle", false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)

	engines := snapshot()
	require.Len(t, engines, 1)

	var order []string
	for _, frame := range engines[0].seenFrames() {
		order = append(order, filepath.Base(filepath.Dir(frame)))
	}
	assert.Equal(t, []string{"frames_a", "frames_c", "frames_b"}, order)
}

func TestRunBuildsOneEnginePerWorkerAndClosesThem(t *testing.T) {
	root := t.TempDir()
	seedVideos(t, root, "a.mp4", "b.mp4")
	factory, snapshot := trackingFactory()

	_, err := newCoordinator(&fakeExtractor{frames: 1, duration: 6.0}, factory, nil, 3).
		Run(context.Background(), root, 5, "paddle", false)
	require.NoError(t, err)

	engines := snapshot()
	require.Len(t, engines, 3)
	for _, e := range engines {
		assert.True(t, e.closed)
	}
}

func TestRunFactoryFailureAbortsRun(t *testing.T) {
	root := t.TempDir()
	seedVideos(t, root, "a.mp4")
	factory := func() (port.Engine, error) {
		return nil, errors.New("tesseract data missing")
	}

	_, err := newCoordinator(&fakeExtractor{}, factory, nil, 2).
		Run(context.Background(), root, 5, "paddle", false)

	assert.ErrorContains(t, err, "construct ocr engine")
}

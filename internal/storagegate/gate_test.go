package storagegate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/radx-adapter/internal/storagegate"
)

func TestNew_DefaultsAppliedWhenZeroValue(t *testing.T) {
	root := t.TempDir()
	g := storagegate.New(root, 0, 0, nil)

	// Exercised indirectly: a freshly created temp dir is far below any
	// sane watermark, so every admission predicate should allow writes.
	assert.True(t, g.CanStore())
	assert.True(t, g.CanExport())
	assert.True(t, g.CanRetrieve())
}

func TestAvailableBytes_ReturnsPositiveValueForRealPath(t *testing.T) {
	root := t.TempDir()
	g := storagegate.New(root, storagegate.DefaultWatermarkPercent, storagegate.DefaultReservedBytes, nil)

	free, err := g.AvailableBytes()
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}

func TestCanStore_DeniesWhenWatermarkIsNearZeroPercent(t *testing.T) {
	root := t.TempDir()
	// A watermark of a tiny fraction of a percent will be exceeded by
	// virtually any real filesystem's current usage.
	g := storagegate.New(root, 0.0001, 0, nil)

	assert.False(t, g.CanStore())
}

func TestAvailableBytes_ErrorsForNonexistentPath(t *testing.T) {
	g := storagegate.New("/this/path/does/not/exist/at/all", 0, 0, nil)
	_, err := g.AvailableBytes()
	assert.Error(t, err)
}

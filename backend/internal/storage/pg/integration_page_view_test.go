package pg

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageViews(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()

	stats, err := storage.PageViewStats(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.Recent)

	for i := range 5 {
		require.NoError(t, storage.RecordPageView(ctx, fmt.Sprintf("source-%d", i)))
	}

	stats, err = storage.PageViewStats(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	require.Len(t, stats.Recent, 3)
	assert.Equal(t, "source-4", stats.Recent[0].Source)
	assert.Equal(t, "source-2", stats.Recent[2].Source)
}

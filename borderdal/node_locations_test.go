package borderdal

import (
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeLocationResolver(t *testing.T) {
	ways := []border.UnresolvedWay{
		{ID: 10, NodeIDs: []int64{3, 1, 2, 1}},
		{ID: 11, NodeIDs: []int64{2, 4}},
	}

	resolver := NewNodeLocationResolver(NewMemoryNodeLocationStore(), ways)
	assert.Equal(t, []int64{1, 2, 3, 4}, resolver.requiredNodeIDs)

	for _, n := range []int64{1, 2, 3, 5} {
		err := resolver.ObserveNode(node(n, float64(n), float64(-n)))
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(3), resolver.NodesKept())

	t.Run("all nodes available", func(t *testing.T) {
		resolved, err := resolver.Resolve(ways[0])
		require.NoError(t, err)

		assert.Equal(t, &border.ResolvedWay{
			ID: 10,
			Nodes: []border.ResolvedNode{
				{NodeID: 3, Location: border.Location{Lat: 3, Lon: -3}},
				{NodeID: 1, Location: border.Location{Lat: 1, Lon: -1}},
				{NodeID: 2, Location: border.Location{Lat: 2, Lon: -2}},
				{NodeID: 1, Location: border.Location{Lat: 1, Lon: -1}},
			},
		}, resolved)
	})

	t.Run("missing node", func(t *testing.T) {
		_, err := resolver.Resolve(ways[1])
		require.Error(t, err)
		assert.Equal(t, ErrUnresolvedLocation, errorsx.Cause(err))
	})
}

func TestMemoryNodeLocationStore(t *testing.T) {
	store := NewMemoryNodeLocationStore()

	_, err := store.Get(1)
	assert.Equal(t, errorsx.ObjectNotFound, errorsx.Cause(err))

	err = store.Set(1, border.Location{Lat: 1.5, Lon: 2.5})
	require.NoError(t, err)

	location, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, border.Location{Lat: 1.5, Lon: 2.5}, location)
}

func TestRunStats_ExitCode(t *testing.T) {
	tests := []struct {
		name  string
		stats RunStats
		want  ExitCode
	}{
		{"clean run", RunStats{}, ExitCodeOK},
		{"some warnings", RunStats{Warnings: 3}, ExitCodeWarning},
		{"500 warnings", RunStats{Warnings: 500}, ExitCodeWarning},
		{"too many warnings", RunStats{Warnings: 501}, ExitCodeError},
		{"an error", RunStats{Errors: 1}, ExitCodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.ExitCode())
		})
	}
}

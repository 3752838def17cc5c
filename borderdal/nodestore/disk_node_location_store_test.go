package nodestore

import (
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/osmborder/border"
	"github.com/jamesrr39/osmborder/borderdal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ borderdal.NodeLocationStore = &DiskNodeLocationStore{}

func TestBucketIDForNode(t *testing.T) {
	assert.Equal(t, int64(0), bucketIDForNode(0))
	assert.Equal(t, int64(0), bucketIDForNode(1023))
	assert.Equal(t, int64(1), bucketIDForNode(1024))
	assert.Equal(t, int64(-1), bucketIDForNode(-1))
	assert.Equal(t, int64(-1), bucketIDForNode(-1024))
	assert.Equal(t, int64(-2), bucketIDForNode(-1025))
}

func TestDiskNodeLocationStore(t *testing.T) {
	t.Run("1 item", func(t *testing.T) {
		store, err := NewDiskNodeLocationStore(mockfs.NewMockFs(), "/tmp/nodes", DefaultCachedBuckets)
		require.NoError(t, err)

		err = store.Set(222333, border.Location{Lat: 51.5, Lon: -0.1})
		require.NoError(t, err)

		location, err := store.Get(222333)
		require.NoError(t, err)
		assert.Equal(t, border.Location{Lat: 51.5, Lon: -0.1}, location)

		_, err = store.Get(222334)
		assert.Equal(t, errorsx.ObjectNotFound, errorsx.Cause(err))

		_, err = store.Get(1)
		assert.Equal(t, errorsx.ObjectNotFound, errorsx.Cause(err))
	})

	t.Run("buckets evicted to disk and read back", func(t *testing.T) {
		fs := mockfs.NewMockFs()
		store, err := NewDiskNodeLocationStore(fs, "/tmp/nodes", 2)
		require.NoError(t, err)

		// out of order, across 5 buckets
		nodeIDs := []int64{5000, 1, 3000, 1025, 4100, 2, 2049, -7}
		for _, nodeID := range nodeIDs {
			err = store.Set(nodeID, border.Location{Lat: float64(nodeID) / 100, Lon: float64(nodeID) / 1000})
			require.NoError(t, err)
		}

		assert.NotZero(t, store.BucketCount())

		for _, nodeID := range nodeIDs {
			location, err := store.Get(nodeID)
			require.NoError(t, err, "nodeID: %d", nodeID)
			assert.Equal(t, border.Location{Lat: float64(nodeID) / 100, Lon: float64(nodeID) / 1000}, location)
		}

		_, err = store.Get(3)
		assert.Equal(t, errorsx.ObjectNotFound, errorsx.Cause(err))

		err = store.Flush()
		require.NoError(t, err)

		err = store.Close()
		require.NoError(t, err)

		_, statErr := fs.Stat("/tmp/nodes")
		assert.Error(t, statErr)
	})
}

package borderdal

import (
	"testing"

	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationCollector_ObserveRelation(t *testing.T) {
	collector := NewRelationCollector()

	relations := []*osm.Relation{
		relation(1, osmTags("boundary", "administrative", "admin_level", "2"), wayMember(10), wayMember(11), wayMember(10)),
		relation(2, osmTags("boundary", "protected_area"), wayMember(10)),
		relation(3, osmTags("boundary", "claim"), wayMember(11),
			osm.Member{Type: osm.TypeRelation, Ref: 1, Role: "subarea"},
			osm.Member{Type: osm.TypeNode, Ref: 5, Role: "label"},
		),
		relation(4, osmTags("boundary", "disputed"), wayMember(12)),
	}
	for _, r := range relations {
		err := collector.ObserveRelation(r)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, collector.Store().Len())
	assert.Equal(t, WayParentIndex{
		10: {0, 0},
		11: {0, 1},
		12: {2},
	}, collector.Index())

	for wayID, offsets := range collector.Index() {
		for _, offset := range offsets {
			relation := collector.Store().Get(offset)
			found := false
			for _, member := range relation.Members {
				if member.Type == border.MemberTypeWay && member.Ref == wayID {
					found = true
				}
			}
			assert.True(t, found, "relation %d at offset %d doesn't have way %d as a member", relation.ID, offset, wayID)
		}
	}

	assert.Equal(t, int64(3), collector.Store().Get(1).ID)
}

func TestRelationCollector_scanObject(t *testing.T) {
	collector := NewRelationCollector()
	err := collector.scanObject(node(1, 0, 0))
	require.Error(t, err)
}

func TestWayFilter_ObserveWay(t *testing.T) {
	index := WayParentIndex{
		10: {0},
		12: {0, 1},
	}
	filter := NewWayFilter(index)

	assert.True(t, filter.ObserveWay(way(10, nil, 1, 2)))
	assert.False(t, filter.ObserveWay(way(11, nil, 2, 3)))
	assert.True(t, filter.ObserveWay(way(12, osmTags("maritime", "yes"), 3, 4)))
	assert.False(t, filter.ObserveWay(way(12, nil, 3, 4, 5)))

	assert.Equal(t, []border.UnresolvedWay{
		{ID: 10, NodeIDs: []int64{1, 2}},
		{ID: 12, Tags: border.Tags{{Key: "maritime", Value: "yes"}}, NodeIDs: []int64{3, 4}},
	}, filter.Ways())
}

package border

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestNewRelationFromOSMRelation(t *testing.T) {
	osmRelation := &osm.Relation{
		ID: 51477,
		Tags: osm.Tags{
			{Key: "boundary", Value: "administrative"},
			{Key: "admin_level", Value: "2"},
		},
		Members: osm.Members{
			{Type: osm.TypeNode, Ref: 1, Role: "admin_centre"},
			{Type: osm.TypeWay, Ref: 2, Role: "outer"},
			{Type: osm.TypeRelation, Ref: 3, Role: "subarea"},
		},
	}

	relation := NewRelationFromOSMRelation(osmRelation)

	assert.Equal(t, Relation{
		ID:   51477,
		Tags: tags("boundary", "administrative", "admin_level", "2"),
		Members: []RelationMember{
			{Type: MemberTypeNode, Ref: 1, Role: "admin_centre"},
			{Type: MemberTypeWay, Ref: 2, Role: "outer"},
			{Type: MemberTypeRelation, Ref: 3, Role: "subarea"},
		},
	}, relation)
}

func TestNewUnresolvedWayFromOSMWay(t *testing.T) {
	osmWay := &osm.Way{
		ID:    7,
		Nodes: osm.WayNodes{{ID: 10}, {ID: 11}, {ID: 10}},
	}

	way := NewUnresolvedWayFromOSMWay(osmWay)

	assert.Equal(t, UnresolvedWay{
		ID:      7,
		NodeIDs: []int64{10, 11, 10},
	}, way)
}

func TestTags_Find(t *testing.T) {
	wayTags := tags("name", "first", "name", "second")

	value, ok := wayTags.Find("name")
	assert.True(t, ok)
	assert.Equal(t, "first", value)

	_, ok = wayTags.Find("ref")
	assert.False(t, ok)

	assert.True(t, wayTags.HasTag("name", "first"))
	assert.False(t, wayTags.HasTag("name", "second"))
}

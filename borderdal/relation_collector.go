package borderdal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/osm"
)

// RelationOffset is the position of a relation in a RelationStore
type RelationOffset int

// RelationStore is an append-only store of relations. Offsets handed out by Append stay valid for the lifetime of the store.
type RelationStore struct {
	relations []border.Relation
}

func (s *RelationStore) Append(relation border.Relation) RelationOffset {
	s.relations = append(s.relations, relation)
	return RelationOffset(len(s.relations) - 1)
}

func (s *RelationStore) Get(offset RelationOffset) *border.Relation {
	return &s.relations[offset]
}

func (s *RelationStore) Len() int {
	return len(s.relations)
}

// WayParentIndex maps a way ID to the offsets of its parent relations, in the order the relations were discovered.
// A relation listing the same way twice appears twice.
type WayParentIndex map[int64][]RelationOffset

func (index WayParentIndex) Contains(wayID int64) bool {
	_, ok := index[wayID]
	return ok
}

// RelationCollector keeps the boundary relations seen in the relation pass
type RelationCollector struct {
	store RelationStore
	index WayParentIndex
}

func NewRelationCollector() *RelationCollector {
	return &RelationCollector{
		index: make(WayParentIndex),
	}
}

func (c *RelationCollector) ObserveRelation(osmRelation *osm.Relation) errorsx.Error {
	tags := border.NewTagsFromOSMTags(osmRelation.Tags)
	if !border.IsBoundaryRelation(tags) {
		return nil
	}

	relation := border.NewRelationFromOSMRelation(osmRelation)
	offset := c.store.Append(relation)

	for _, member := range relation.Members {
		if member.Type != border.MemberTypeWay {
			continue
		}
		c.index[member.Ref] = append(c.index[member.Ref], offset)
	}

	return nil
}

func (c *RelationCollector) Store() *RelationStore {
	return &c.store
}

func (c *RelationCollector) Index() WayParentIndex {
	return c.index
}

func (c *RelationCollector) scanObject(obj osm.Object) errorsx.Error {
	osmRelation, ok := obj.(*osm.Relation)
	if !ok {
		return errorsx.Errorf("expected a relation in the relation pass, but got %T", obj)
	}

	return c.ObserveRelation(osmRelation)
}

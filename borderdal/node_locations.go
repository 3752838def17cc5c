package borderdal

import (
	"errors"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/osm"
)

var (
	ErrUnresolvedLocation = errors.New("way has a node without a known location")
)

// NodeLocationStore stores node coordinates by node ID.
// Get returns errorsx.ObjectNotFound if there is no location for the node.
type NodeLocationStore interface {
	Set(nodeID int64, location border.Location) errorsx.Error
	Get(nodeID int64) (border.Location, errorsx.Error)
	Close() errorsx.Error
}

type MemoryNodeLocationStore struct {
	locations map[int64]border.Location
}

func NewMemoryNodeLocationStore() *MemoryNodeLocationStore {
	return &MemoryNodeLocationStore{make(map[int64]border.Location)}
}

func (s *MemoryNodeLocationStore) Set(nodeID int64, location border.Location) errorsx.Error {
	s.locations[nodeID] = location
	return nil
}

func (s *MemoryNodeLocationStore) Get(nodeID int64) (border.Location, errorsx.Error) {
	location, ok := s.locations[nodeID]
	if !ok {
		return border.Location{}, errorsx.Wrap(errorsx.ObjectNotFound, "nodeID", nodeID)
	}
	return location, nil
}

func (s *MemoryNodeLocationStore) Close() errorsx.Error {
	s.locations = nil
	return nil
}

// NodeLocationResolver stores the locations of the nodes that the buffered ways need,
// and joins them onto the ways afterwards
type NodeLocationResolver struct {
	store           NodeLocationStore
	requiredNodeIDs []int64
	nodesKept       uint64
}

func NewNodeLocationResolver(store NodeLocationStore, ways []border.UnresolvedWay) *NodeLocationResolver {
	return &NodeLocationResolver{
		store:           store,
		requiredNodeIDs: collectNodeIDs(ways),
	}
}

// collectNodeIDs returns the sorted, de-duplicated IDs of all the nodes of the ways
func collectNodeIDs(ways []border.UnresolvedWay) []int64 {
	var nodeIDs []int64
	for _, way := range ways {
		nodeIDs = append(nodeIDs, way.NodeIDs...)
	}

	sort.Slice(nodeIDs, func(i, j int) bool {
		return nodeIDs[i] < nodeIDs[j]
	})

	return uniqueSortedInt64s(nodeIDs)
}

func uniqueSortedInt64s(list []int64) []int64 {
	if len(list) == 0 {
		return list
	}

	unique := list[:1]
	for _, item := range list[1:] {
		if item == unique[len(unique)-1] {
			continue
		}
		unique = append(unique, item)
	}
	return unique
}

func containsSortedInt64(sortedList []int64, item int64) bool {
	idx := sort.Search(len(sortedList), func(i int) bool {
		return sortedList[i] >= item
	})
	return idx < len(sortedList) && sortedList[idx] == item
}

func (r *NodeLocationResolver) RequiredNodeCount() int {
	return len(r.requiredNodeIDs)
}

func (r *NodeLocationResolver) NodesKept() uint64 {
	return r.nodesKept
}

// ObserveNode stores the location of the node if a buffered way needs it
func (r *NodeLocationResolver) ObserveNode(node *osm.Node) errorsx.Error {
	nodeID := int64(node.ID)
	if !containsSortedInt64(r.requiredNodeIDs, nodeID) {
		return nil
	}

	err := r.store.Set(nodeID, border.NewLocationFromOSMNode(node))
	if err != nil {
		return errorsx.Wrap(err, "nodeID", nodeID)
	}

	r.nodesKept++
	return nil
}

// Resolve joins the node locations onto the way.
// If any node has no known location, it returns ErrUnresolvedLocation.
func (r *NodeLocationResolver) Resolve(way border.UnresolvedWay) (*border.ResolvedWay, errorsx.Error) {
	nodes := make([]border.ResolvedNode, 0, len(way.NodeIDs))
	for _, nodeID := range way.NodeIDs {
		location, err := r.store.Get(nodeID)
		if err != nil {
			if errorsx.Cause(err) == errorsx.ObjectNotFound {
				return nil, errorsx.Wrap(ErrUnresolvedLocation, "wayID", way.ID, "nodeID", nodeID)
			}
			return nil, errorsx.Wrap(err, "wayID", way.ID, "nodeID", nodeID)
		}

		nodes = append(nodes, border.ResolvedNode{
			NodeID:   nodeID,
			Location: location,
		})
	}

	return &border.ResolvedWay{
		ID:    way.ID,
		Tags:  way.Tags,
		Nodes: nodes,
	}, nil
}

func (r *NodeLocationResolver) scanObject(obj osm.Object) errorsx.Error {
	node, ok := obj.(*osm.Node)
	if !ok {
		return errorsx.Errorf("expected a node in the node pass, but got %T", obj)
	}

	return r.ObserveNode(node)
}

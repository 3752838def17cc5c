package borderdal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/osm"
)

// WayFilter buffers the ways that are a member of at least one boundary relation, in scan order
type WayFilter struct {
	index  WayParentIndex
	seen   map[int64]bool
	buffer []border.UnresolvedWay
}

func NewWayFilter(index WayParentIndex) *WayFilter {
	return &WayFilter{
		index: index,
		seen:  make(map[int64]bool),
	}
}

// ObserveWay buffers the way if a boundary relation references it. It reports whether the way was kept.
func (f *WayFilter) ObserveWay(osmWay *osm.Way) bool {
	wayID := int64(osmWay.ID)
	if !f.index.Contains(wayID) {
		return false
	}

	if f.seen[wayID] {
		// files with more than one version of a way; keep the first
		return false
	}
	f.seen[wayID] = true

	f.buffer = append(f.buffer, border.NewUnresolvedWayFromOSMWay(osmWay))
	return true
}

func (f *WayFilter) Ways() []border.UnresolvedWay {
	return f.buffer
}

func (f *WayFilter) scanObject(obj osm.Object) errorsx.Error {
	osmWay, ok := obj.(*osm.Way)
	if !ok {
		return errorsx.Errorf("expected a way in the way pass, but got %T", obj)
	}

	f.ObserveWay(osmWay)
	return nil
}

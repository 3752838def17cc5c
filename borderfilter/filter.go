package borderfilter

import (
	"bufio"
	"context"
	"encoding/xml"
	"io"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/osmborder/border"
	"github.com/jamesrr39/osmborder/borderdal"
	"github.com/paulmach/osm"
)

const (
	osmVersion = "0.6"
	generator  = "osmborder_filter"
)

type FilterStats struct {
	RelationsWritten uint64
	WaysWritten      uint64
	NodesWritten     uint64
}

// sortedIDList is a sorted, de-duplicated list of object IDs
type sortedIDList []int64

func newSortedIDList(ids []int64) sortedIDList {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	if len(ids) == 0 {
		return nil
	}

	unique := ids[:1]
	for _, id := range ids[1:] {
		if id != unique[len(unique)-1] {
			unique = append(unique, id)
		}
	}
	return unique
}

func (l sortedIDList) Contains(id int64) bool {
	idx := sort.Search(len(l), func(i int) bool {
		return l[i] >= id
	})
	return idx < len(l) && l[idx] == id
}

type filterWriter struct {
	encoder *xml.Encoder
}

func (w *filterWriter) writeObject(obj osm.Object) errorsx.Error {
	err := w.encoder.Encode(obj)
	if err != nil {
		return errorsx.Wrap(err, "object", obj.ObjectID())
	}
	return nil
}

// Filter copies the boundary relations, their member ways, and the nodes of those ways to w, as OSM XML.
// Relations are written first, then ways, then nodes.
func Filter(ctx context.Context, logger *logpkg.Logger, reader borderdal.OSMReader, w io.Writer) (*FilterStats, errorsx.Error) {
	var err error

	_, err = io.WriteString(w, xml.Header+`<osm version="`+osmVersion+`" generator="`+generator+`">`+"\n")
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent(" ", " ")
	fw := &filterWriter{encoder}

	stats := new(FilterStats)

	// pass 1: relations
	var wayIDs []int64
	_, err = borderdal.RunPass(ctx, logger, reader, osm.TypeRelation, func(obj osm.Object) errorsx.Error {
		relation, ok := obj.(*osm.Relation)
		if !ok {
			return errorsx.Errorf("expected a relation, but got %T", obj)
		}

		if !border.IsBoundaryRelation(border.NewTagsFromOSMTags(relation.Tags)) {
			return nil
		}

		for _, member := range relation.Members {
			if member.Type == osm.TypeWay {
				wayIDs = append(wayIDs, member.Ref)
			}
		}

		stats.RelationsWritten++
		return fw.writeObject(relation)
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	requiredWayIDs := newSortedIDList(wayIDs)
	logger.Info("filter: %d relations, %d member ways", stats.RelationsWritten, len(requiredWayIDs))

	// pass 2: ways
	var nodeIDs []int64
	_, err = borderdal.RunPass(ctx, logger, reader, osm.TypeWay, func(obj osm.Object) errorsx.Error {
		way, ok := obj.(*osm.Way)
		if !ok {
			return errorsx.Errorf("expected a way, but got %T", obj)
		}

		if !requiredWayIDs.Contains(int64(way.ID)) {
			return nil
		}

		for _, wayNode := range way.Nodes {
			nodeIDs = append(nodeIDs, int64(wayNode.ID))
		}

		stats.WaysWritten++
		return fw.writeObject(way)
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	requiredNodeIDs := newSortedIDList(nodeIDs)
	logger.Info("filter: %d ways, %d nodes", stats.WaysWritten, len(requiredNodeIDs))

	// pass 3: nodes
	_, err = borderdal.RunPass(ctx, logger, reader, osm.TypeNode, func(obj osm.Object) errorsx.Error {
		node, ok := obj.(*osm.Node)
		if !ok {
			return errorsx.Errorf("expected a node, but got %T", obj)
		}

		if !requiredNodeIDs.Contains(int64(node.ID)) {
			return nil
		}

		stats.NodesWritten++
		return fw.writeObject(node)
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	err = encoder.Flush()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	_, err = io.WriteString(w, "\n</osm>\n")
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return stats, nil
}

// FilterToFile runs Filter into a new file at outputPath. If filtering fails, the partially written file is removed.
func FilterToFile(
	ctx context.Context,
	logger *logpkg.Logger,
	fs gofs.Fs,
	reader borderdal.OSMReader,
	outputPath string,
	overwrite bool,
) (*FilterStats, errorsx.Error) {
	var err error

	if !overwrite {
		_, err = fs.Stat(outputPath)
		if err == nil {
			return nil, errorsx.Errorf("output file %q already exists. Use the overwrite flag to replace it", outputPath)
		}
	}

	outFile, err := fs.Create(outputPath)
	if err != nil {
		return nil, errorsx.Wrap(err, "outputPath", outputPath)
	}

	var successful bool
	defer func() {
		if !successful {
			outFile.Close()
			removeErr := fs.Remove(outputPath)
			if removeErr != nil {
				logger.Error("couldn't remove the partial output file %q. Error: %s", outputPath, removeErr)
			}
		}
	}()

	writer := bufio.NewWriter(outFile)

	stats, err := Filter(ctx, logger, reader, writer)
	if err != nil {
		return nil, errorsx.Wrap(err, "outputPath", outputPath)
	}

	err = writer.Flush()
	if err != nil {
		return nil, errorsx.Wrap(err, "outputPath", outputPath)
	}

	err = outFile.Close()
	if err != nil {
		return nil, errorsx.Wrap(err, "outputPath", outputPath)
	}

	successful = true
	return stats, nil
}

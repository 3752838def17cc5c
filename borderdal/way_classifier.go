package borderdal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/osmborder/border"
)

// GeometryBuilder serialises the line geometry of a way
type GeometryBuilder interface {
	BuildLineString(way *border.ResolvedWay) (string, errorsx.Error)
}

// Outputter receives the classified lines.
// Commit finishes a successful run; Rollback discards what has been written so far. Exactly one of them is called.
type Outputter interface {
	OutputLine(line *border.ClassifiedLine) errorsx.Error
	Commit() errorsx.Error
	Rollback() errorsx.Error
}

type WayClassifier struct {
	logger          *logpkg.Logger
	relationStore   *RelationStore
	index           WayParentIndex
	geometryBuilder GeometryBuilder
	outputter       Outputter
	stats           *RunStats
}

func NewWayClassifier(
	logger *logpkg.Logger,
	relationStore *RelationStore,
	index WayParentIndex,
	geometryBuilder GeometryBuilder,
	outputter Outputter,
	stats *RunStats,
) *WayClassifier {
	return &WayClassifier{logger, relationStore, index, geometryBuilder, outputter, stats}
}

// ClassifyWay classifies a way and outputs it.
// Ways without a parent that has a known admin level are skipped, as are ways whose geometry can't be built;
// the latter is counted as an error in the run stats but not returned. Returned errors are fatal.
func (c *WayClassifier) ClassifyWay(way *border.ResolvedWay) errorsx.Error {
	offsets := c.index[way.ID]
	parentTags := make([]border.Tags, 0, len(offsets))
	for _, offset := range offsets {
		parentTags = append(parentTags, c.relationStore.Get(offset).Tags)
	}

	classification, ok := border.Classify(way.Tags, parentTags)
	if !ok {
		c.logger.Debug("skipping way %d: no parent relation with a known admin level", way.ID)
		c.stats.WaysSkipped++
		return nil
	}

	geometry, err := c.geometryBuilder.BuildLineString(way)
	if err != nil {
		c.logger.Error("couldn't build the geometry for way %d: %s", way.ID, err.Error())
		c.stats.Errors++
		return nil
	}

	err = c.outputter.OutputLine(&border.ClassifiedLine{
		WayID:          way.ID,
		Classification: classification,
		Geometry:       geometry,
	})
	if err != nil {
		return errorsx.Wrap(err, "wayID", way.ID)
	}

	c.stats.LinesOutput++
	return nil
}

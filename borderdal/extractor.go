package borderdal

import (
	"context"
	"runtime"
	"time"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/osm"
)

// Extract runs the four passes over the reader: relations, ways, nodes, and finally the classification of the buffered
// ways, in the order they were scanned. Each classified line is handed to the outputter.
// The outputter is committed if the run succeeds and rolled back otherwise.
// Returned errors are fatal; per-way problems are counted in the returned RunStats.
func Extract(
	ctx context.Context,
	logger *logpkg.Logger,
	reader OSMReader,
	nodeStore NodeLocationStore,
	geometryBuilder GeometryBuilder,
	outputter Outputter,
) (*RunStats, errorsx.Error) {
	var err error
	var successful bool

	defer func() {
		if !successful {
			err := outputter.Rollback()
			if err != nil {
				logger.Error("couldn't rollback the output. Error: %s\nStack trace:\n%s\n", err.Error(), err.Stack())
			}
		}
	}()

	stats := new(RunStats)

	// pass 1: relations
	relationCollector := NewRelationCollector()
	err = runTracedPass(ctx, logger, "relations", func() errorsx.Error {
		scanned, err := RunPass(ctx, logger, reader, osm.TypeRelation, relationCollector.scanObject)
		stats.RelationsScanned = scanned
		return err
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	stats.RelationsKept = uint64(relationCollector.Store().Len())
	logger.Info("relation pass: kept %d of %d relations, %d member ways", stats.RelationsKept, stats.RelationsScanned, len(relationCollector.Index()))

	// pass 2: ways
	wayFilter := NewWayFilter(relationCollector.Index())
	err = runTracedPass(ctx, logger, "ways", func() errorsx.Error {
		scanned, err := RunPass(ctx, logger, reader, osm.TypeWay, wayFilter.scanObject)
		stats.WaysScanned = scanned
		return err
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	stats.WaysKept = uint64(len(wayFilter.Ways()))
	logger.Info("way pass: kept %d of %d ways", stats.WaysKept, stats.WaysScanned)

	// pass 3: nodes
	resolver := NewNodeLocationResolver(nodeStore, wayFilter.Ways())
	logger.Info("node pass: %d node locations required", resolver.RequiredNodeCount())
	err = runTracedPass(ctx, logger, "nodes", func() errorsx.Error {
		scanned, err := RunPass(ctx, logger, reader, osm.TypeNode, resolver.scanObject)
		stats.NodesScanned = scanned
		return err
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	stats.NodesKept = resolver.NodesKept()
	logger.Info("node pass: kept %d of %d nodes", stats.NodesKept, stats.NodesScanned)
	logMemUsage(logger)

	// pass 4: classify the buffered ways
	classifier := NewWayClassifier(logger, relationCollector.Store(), relationCollector.Index(), geometryBuilder, outputter, stats)
	err = runTracedPass(ctx, logger, "classify", func() errorsx.Error {
		return classifyWays(ctx, logger, wayFilter.Ways(), resolver, classifier, stats)
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	err = outputter.Commit()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	successful = true
	logger.Info("output %d lines", stats.LinesOutput)

	return stats, nil
}

func classifyWays(
	ctx context.Context,
	logger *logpkg.Logger,
	ways []border.UnresolvedWay,
	resolver *NodeLocationResolver,
	classifier *WayClassifier,
	stats *RunStats,
) errorsx.Error {
	for i, unresolvedWay := range ways {
		if i%progressLogInterval == 0 {
			err := ctx.Err()
			if err != nil {
				return errorsx.Wrap(err)
			}
		}

		resolvedWay, err := resolver.Resolve(unresolvedWay)
		if err != nil {
			if errorsx.Cause(err) != ErrUnresolvedLocation {
				return errorsx.Wrap(err)
			}

			logger.Warn("skipping way %d: %s", unresolvedWay.ID, err.Error())
			stats.Warnings++
			continue
		}

		err = classifier.ClassifyWay(resolvedWay)
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	return nil
}

// runTracedPass runs the pass in a tracing span, if the context carries a trace
func runTracedPass(ctx context.Context, logger *logpkg.Logger, name string, pass func() errorsx.Error) errorsx.Error {
	startTime := time.Now()
	logger.Info("starting %s pass", name)

	if ctx.Value(tracing.TracerCtxKey) != nil && ctx.Value(tracing.TraceCtxKey) != nil {
		span := tracing.StartSpan(ctx, name)
		defer span.End(ctx)
	}

	err := pass()
	if err != nil {
		return err
	}

	logger.Info("finished %s pass in %s", name, time.Since(startTime))
	return nil
}

func logMemUsage(logger *logpkg.Logger) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	logger.Info("memory: heap in use %s, total from the OS %s",
		humanise.HumaniseBytes(int64(memStats.HeapInuse)),
		humanise.HumaniseBytes(int64(memStats.Sys)),
	)
}

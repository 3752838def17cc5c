package borderdal

import (
	"context"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/paulmach/osm"
)

const progressLogInterval = 100 * 1000

type ScanObjectFunc func(obj osm.Object) errorsx.Error

// RunPass rewinds the reader to objects of one type and feeds every object to scanObject.
// It returns the amount of objects scanned.
func RunPass(
	ctx context.Context,
	logger *logpkg.Logger,
	reader OSMReader,
	objectType osm.Type,
	scanObject ScanObjectFunc,
) (uint64, errorsx.Error) {
	var err error

	err = reader.Reset(objectType)
	if err != nil {
		return 0, errorsx.Wrap(err, "objectType", objectType)
	}

	var scanned uint64
	for reader.Scan() {
		if scanned%progressLogInterval == 0 {
			err = ctx.Err()
			if err != nil {
				return scanned, errorsx.Wrap(err, "objectType", objectType)
			}

			if scanned != 0 {
				logProgress(logger, reader, objectType, scanned)
			}
		}

		err = scanObject(reader.Object())
		if err != nil {
			return scanned, errorsx.Wrap(err, "objectType", objectType)
		}
		scanned++
	}

	err = reader.Err()
	if err != nil {
		return scanned, errorsx.Wrap(err, "objectType", objectType)
	}

	return scanned, nil
}

func logProgress(logger *logpkg.Logger, reader OSMReader, objectType osm.Type, scanned uint64) {
	totalSize := reader.TotalSize()
	if totalSize == 0 {
		logger.Info("%s pass: scanned %d objects", objectType, scanned)
		return
	}

	percentage := float64(reader.FullyScannedBytes()) * 100 / float64(totalSize)
	logger.Info("%s pass: scanned %d objects (%.1f%% of file)", objectType, scanned, percentage)
}

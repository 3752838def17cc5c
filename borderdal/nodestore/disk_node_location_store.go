package nodestore

import (
	"encoding/base32"
	"path/filepath"
	"sort"

	proto "github.com/gogo/protobuf/proto"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jamesrr39/goutil/algorithms"
	"github.com/jamesrr39/goutil/binaryx"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/osmborder/border"
)

const (
	// NodesPerBucket is the size of the ID range that shares one bucket file
	NodesPerBucket = 1024

	DefaultCachedBuckets = 4096
)

type bucketEntry struct {
	Sorted bool
	Dirty  bool
	Data   *NodeLocationBucket
}

// DiskNodeLocationStore stores node locations in bucket files under a base directory.
// Node IDs are grouped into buckets of NodesPerBucket consecutive IDs; the most recently used buckets are kept in memory
// and written back to disk when they are evicted.
type DiskNodeLocationStore struct {
	fs            gofs.Fs
	basePath      string
	cache         *lru.Cache[int64, *bucketEntry]
	bucketsOnDisk map[int64]bool
	flushErr      errorsx.Error
}

func NewDiskNodeLocationStore(fs gofs.Fs, basePath string, cachedBuckets int) (*DiskNodeLocationStore, errorsx.Error) {
	err := fs.MkdirAll(basePath, 0700)
	if err != nil {
		return nil, errorsx.Wrap(err, "basePath", basePath)
	}

	store := &DiskNodeLocationStore{
		fs:            fs,
		basePath:      basePath,
		bucketsOnDisk: make(map[int64]bool),
	}

	cache, err := lru.NewWithEvict(cachedBuckets, store.onEvict)
	if err != nil {
		return nil, errorsx.Wrap(err, "cachedBuckets", cachedBuckets)
	}
	store.cache = cache

	return store, nil
}

func bucketIDForNode(nodeID int64) int64 {
	bucketID := nodeID / NodesPerBucket
	if nodeID < 0 && nodeID%NodesPerBucket != 0 {
		bucketID--
	}
	return bucketID
}

func (s *DiskNodeLocationStore) getPathToBucketFile(bucketID int64) string {
	bucketName := binaryx.LittleEndianPutUint64(uint64(bucketID))
	return filepath.Join(s.basePath, base32.StdEncoding.EncodeToString(bucketName))
}

func (s *DiskNodeLocationStore) onEvict(bucketID int64, entry *bucketEntry) {
	if !entry.Dirty {
		return
	}

	err := s.writeBucket(bucketID, entry)
	if err != nil && s.flushErr == nil {
		s.flushErr = err
	}
}

func (s *DiskNodeLocationStore) writeBucket(bucketID int64, entry *bucketEntry) errorsx.Error {
	sortBucket(entry)

	b, err := proto.Marshal(entry.Data)
	if err != nil {
		return errorsx.Wrap(err, "bucketID", bucketID)
	}

	err = s.fs.WriteFile(s.getPathToBucketFile(bucketID), b, 0600)
	if err != nil {
		return errorsx.Wrap(err, "bucketID", bucketID)
	}

	entry.Dirty = false
	s.bucketsOnDisk[bucketID] = true
	return nil
}

// getBucket returns the bucket, from the cache or from disk. If the bucket doesn't exist yet, it returns (nil, nil).
func (s *DiskNodeLocationStore) getBucket(bucketID int64) (*bucketEntry, errorsx.Error) {
	entry, ok := s.cache.Get(bucketID)
	if ok {
		return entry, nil
	}

	if !s.bucketsOnDisk[bucketID] {
		return nil, nil
	}

	b, err := s.fs.ReadFile(s.getPathToBucketFile(bucketID))
	if err != nil {
		return nil, errorsx.Wrap(err, "bucketID", bucketID)
	}

	bucketData := new(NodeLocationBucket)
	err = proto.Unmarshal(b, bucketData)
	if err != nil {
		return nil, errorsx.Wrap(err, "bucketID", bucketID)
	}

	entry = &bucketEntry{
		Sorted: true,
		Data:   bucketData,
	}
	s.cache.Add(bucketID, entry)

	return entry, s.flushErr
}

func (s *DiskNodeLocationStore) Set(nodeID int64, location border.Location) errorsx.Error {
	bucketID := bucketIDForNode(nodeID)

	entry, err := s.getBucket(bucketID)
	if err != nil {
		return errorsx.Wrap(err)
	}

	if entry == nil {
		entry = &bucketEntry{
			Sorted: true,
			Data:   new(NodeLocationBucket),
		}
		s.cache.Add(bucketID, entry)
	}

	entry.Data.Items = append(entry.Data.Items, &NodeLocationItem{
		NodeID: nodeID,
		Lat:    location.Lat,
		Lon:    location.Lon,
	})
	entry.Sorted = false
	entry.Dirty = true

	if s.flushErr != nil {
		return s.flushErr
	}

	return nil
}

func (s *DiskNodeLocationStore) Get(nodeID int64) (border.Location, errorsx.Error) {
	entry, err := s.getBucket(bucketIDForNode(nodeID))
	if err != nil {
		return border.Location{}, errorsx.Wrap(err)
	}

	if entry == nil {
		return border.Location{}, errorsx.Wrap(errorsx.ObjectNotFound, "nodeID", nodeID)
	}

	sortBucket(entry)

	items := entry.Data.Items
	idx, searchResult := algorithms.BinarySearch(len(items), func(i int) algorithms.SearchResult {
		thisNodeID := items[i].NodeID
		switch {
		case thisNodeID == nodeID:
			return algorithms.SearchResultFound
		case thisNodeID > nodeID:
			return algorithms.SearchResultGoLower
		default:
			return algorithms.SearchResultGoHigher
		}
	})
	if searchResult != algorithms.SearchResultFound {
		return border.Location{}, errorsx.Wrap(errorsx.ObjectNotFound, "nodeID", nodeID)
	}

	return border.Location{
		Lat: items[idx].Lat,
		Lon: items[idx].Lon,
	}, nil
}

// Close drops the cached buckets, without writing them back, and removes the bucket files
func (s *DiskNodeLocationStore) Close() errorsx.Error {
	s.cache = nil
	s.bucketsOnDisk = nil

	err := s.fs.RemoveAll(s.basePath)
	if err != nil {
		return errorsx.Wrap(err, "basePath", s.basePath)
	}

	return nil
}

// Flush writes all buckets held in memory to disk
func (s *DiskNodeLocationStore) Flush() errorsx.Error {
	for _, bucketID := range s.cache.Keys() {
		entry, ok := s.cache.Peek(bucketID)
		if !ok || !entry.Dirty {
			continue
		}

		err := s.writeBucket(bucketID, entry)
		if err != nil {
			return err
		}
	}

	return s.flushErr
}

// BucketCount returns the amount of buckets that have been written to disk at least once
func (s *DiskNodeLocationStore) BucketCount() int {
	return len(s.bucketsOnDisk)
}

func sortBucket(entry *bucketEntry) {
	if entry.Sorted {
		return
	}

	items := entry.Data.Items
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].NodeID < items[j].NodeID
	})
	entry.Sorted = true
}

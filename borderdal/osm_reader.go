package borderdal

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// OSMReader is a rewindable reader over an OSM file.
// Reset must be called before the first Scan; it rewinds the file and restricts the scan to one object type.
type OSMReader interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Reset(objectType osm.Type) errorsx.Error
	FullyScannedBytes() int64
	TotalSize() int64
	Close() error
}

var (
	_ OSMReader = &DefaultPBFReader{}
	_ OSMReader = &DefaultXMLReader{}
)

// NewOSMReaderForFile opens the file at path and picks a reader by its extension.
// ".pbf" files are read as PBF, everything else as OSM XML.
func NewOSMReaderForFile(ctx context.Context, fs gofs.Fs, path string) (OSMReader, errorsx.Error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	var reader OSMReader
	if strings.EqualFold(filepath.Ext(path), ".pbf") {
		reader, err = NewDefaultPBFReader(ctx, file)
	} else {
		reader, err = NewDefaultXMLReader(ctx, file)
	}
	if err != nil {
		file.Close()
		return nil, errorsx.Wrap(err, "path", path)
	}

	return reader, nil
}

type DefaultPBFReader struct {
	ctx  context.Context
	file gofs.File
	*osmpbf.Scanner
	totalSize int64
}

func NewDefaultPBFReader(ctx context.Context, file gofs.File) (*DefaultPBFReader, errorsx.Error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &DefaultPBFReader{ctx, file, nil, fileInfo.Size()}, nil
}

func (r *DefaultPBFReader) TotalSize() int64 {
	return r.totalSize
}

func (r *DefaultPBFReader) Reset(objectType osm.Type) errorsx.Error {
	if r.Scanner != nil {
		err := r.Scanner.Close()
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	_, err := r.file.Seek(0, io.SeekStart)
	if err != nil {
		return errorsx.Wrap(err)
	}

	scanner := osmpbf.New(r.ctx, r.file, runtime.NumCPU())
	scanner.SkipNodes = objectType != osm.TypeNode
	scanner.SkipWays = objectType != osm.TypeWay
	scanner.SkipRelations = objectType != osm.TypeRelation

	r.Scanner = scanner
	return nil
}

func (r *DefaultPBFReader) Close() error {
	if r.Scanner != nil {
		err := r.Scanner.Close()
		if err != nil {
			r.file.Close()
			return err
		}
	}

	return r.file.Close()
}

type countingReader struct {
	reader    io.Reader
	bytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	return n, err
}

// DefaultXMLReader reads OSM XML files. The XML decoder can't skip object types, so objects of other types are
// discarded as they are scanned.
type DefaultXMLReader struct {
	ctx        context.Context
	file       gofs.File
	totalSize  int64
	objectType osm.Type
	counter    *countingReader
	scanner    *osmxml.Scanner
}

func NewDefaultXMLReader(ctx context.Context, file gofs.File) (*DefaultXMLReader, errorsx.Error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &DefaultXMLReader{
		ctx:       ctx,
		file:      file,
		totalSize: fileInfo.Size(),
	}, nil
}

func (r *DefaultXMLReader) Reset(objectType osm.Type) errorsx.Error {
	if r.scanner != nil {
		err := r.scanner.Close()
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	_, err := r.file.Seek(0, io.SeekStart)
	if err != nil {
		return errorsx.Wrap(err)
	}

	r.objectType = objectType
	r.counter = &countingReader{reader: r.file}
	r.scanner = osmxml.New(r.ctx, r.counter)
	return nil
}

func (r *DefaultXMLReader) Scan() bool {
	for r.scanner.Scan() {
		if r.scanner.Object().ObjectID().Type() == r.objectType {
			return true
		}
	}
	return false
}

func (r *DefaultXMLReader) Object() osm.Object {
	return r.scanner.Object()
}

func (r *DefaultXMLReader) Err() error {
	return r.scanner.Err()
}

func (r *DefaultXMLReader) FullyScannedBytes() int64 {
	if r.counter == nil {
		return 0
	}
	return r.counter.bytesRead
}

func (r *DefaultXMLReader) TotalSize() int64 {
	return r.totalSize
}

func (r *DefaultXMLReader) Close() error {
	if r.scanner != nil {
		err := r.scanner.Close()
		if err != nil {
			r.file.Close()
			return err
		}
	}

	return r.file.Close()
}

package borderoutput

import (
	_ "embed"
	"encoding/json"
	"runtime"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/osmborder/border"
	"github.com/jamesrr39/osmborder/borderdal"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	parquetwriter "github.com/xitongsys/parquet-go/writer"
)

// JSON writer example: https://github.com/xitongsys/parquet-go/blob/62cf52a8dad4f8b729e6c38809f091cd134c3749/example/json_write.go

var (
	//go:embed lines_schema.json
	linesSchema string
)

var _ borderdal.Outputter = &ParquetOutputter{}

const DefaultParquetRowGroupSize = 128 * 1024 * 1024

// parquetLineRow is marshalled to JSON for the JSON writer. The keys must match the "inname" of the schema fields.
type parquetLineRow struct {
	OsmID        int64
	AdminLevel   int32
	DividingLine bool
	Neutral      bool
	Disputed     bool
	DisputedBy   []string
	ClaimedBy    []string
	Maritime     bool
	Way          string
}

func newParquetLineRow(line *border.ClassifiedLine) parquetLineRow {
	row := parquetLineRow{
		OsmID:        line.WayID,
		AdminLevel:   int32(line.MinAdminLevel),
		DividingLine: line.DividingLine,
		Neutral:      line.Neutral,
		Disputed:     line.Disputed,
		DisputedBy:   line.DisputedBy,
		ClaimedBy:    line.ClaimedBy,
		Maritime:     line.Maritime,
		Way:          line.Geometry,
	}

	// required lists can't be null
	if row.DisputedBy == nil {
		row.DisputedBy = []string{}
	}
	if row.ClaimedBy == nil {
		row.ClaimedBy = []string{}
	}

	return row
}

// ParquetOutputter writes the lines to a Snappy compressed Parquet file
type ParquetOutputter struct {
	fs     gofs.Fs
	path   string
	file   gofs.File
	closed bool
	writer *parquetwriter.JSONWriter
}

func NewParquetOutputter(fs gofs.Fs, path string, options OutputOptions) (*ParquetOutputter, errorsx.Error) {
	var err error

	err = checkOverwrite(fs, path, options.Overwrite)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	file, err := fs.Create(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	writer, err := parquetwriter.NewJSONWriter(linesSchema, writerfile.NewWriterFile(file), int64(runtime.NumCPU()))
	if err != nil {
		file.Close()
		fs.Remove(path)
		return nil, errorsx.Wrap(err, "path", path)
	}
	writer.RowGroupSize = DefaultParquetRowGroupSize
	writer.CompressionType = parquet.CompressionCodec_SNAPPY

	return &ParquetOutputter{
		fs:     fs,
		path:   path,
		file:   file,
		writer: writer,
	}, nil
}

func (o *ParquetOutputter) OutputLine(line *border.ClassifiedLine) errorsx.Error {
	j, err := json.Marshal(newParquetLineRow(line))
	if err != nil {
		return errorsx.Wrap(err, "wayID", line.WayID)
	}

	err = o.writer.Write(string(j))
	if err != nil {
		return errorsx.Wrap(err, "wayID", line.WayID)
	}

	return nil
}

func (o *ParquetOutputter) closeFile() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.file.Close()
}

// Commit writes the footer and closes the file. If it fails, the file is left for Rollback to remove.
func (o *ParquetOutputter) Commit() errorsx.Error {
	err := o.writer.WriteStop()
	if err != nil {
		return errorsx.Wrap(err, "path", o.path)
	}

	err = o.closeFile()
	if err != nil {
		return errorsx.Wrap(err, "path", o.path)
	}

	return nil
}

// Rollback removes the partially written file. The file is removed even if it can't be closed.
func (o *ParquetOutputter) Rollback() errorsx.Error {
	o.closeFile()

	err := o.fs.Remove(o.path)
	if err != nil {
		return errorsx.Wrap(err, "path", o.path)
	}

	return nil
}

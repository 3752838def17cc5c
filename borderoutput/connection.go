package borderoutput

import (
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/osmborder/borderdal"
)

type OutputType string

const (
	OutputTypeTSV        OutputType = "tsv"
	OutputTypePostgresql OutputType = "postgresql"
	OutputTypeParquet    OutputType = "parquet"
)

const ConnectionPathSeparator = "://"

type OutputConnectionURL struct {
	Type           OutputType
	ConnectionPath string
}

// ParseOutputConnString splits an output connection string into its type and path.
// A string without a type is a path to a TSV file.
func ParseOutputConnString(str string) (OutputConnectionURL, errorsx.Error) {
	if str == "" {
		return OutputConnectionURL{}, errorsx.Errorf("empty output connection string")
	}

	idx := strings.Index(str, ConnectionPathSeparator)
	if idx < 0 {
		return OutputConnectionURL{
			Type:           OutputTypeTSV,
			ConnectionPath: str,
		}, nil
	}

	connURL := OutputConnectionURL{
		Type:           OutputType(str[:idx]),
		ConnectionPath: str[idx+len(ConnectionPathSeparator):],
	}
	if connURL.ConnectionPath == "" {
		return OutputConnectionURL{}, errorsx.Errorf("no path given in output connection string %q", str)
	}

	return connURL, nil
}

type OutputOptions struct {
	Overwrite      bool
	IncludeNeutral bool
	SRID           int
}

// NewOutputter creates the outputter for the connection string
func NewOutputter(fs gofs.Fs, connString string, options OutputOptions) (borderdal.Outputter, errorsx.Error) {
	connURL, err := ParseOutputConnString(connString)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	switch connURL.Type {
	case OutputTypeTSV:
		return NewTSVOutputter(fs, connURL.ConnectionPath, options)
	case OutputTypePostgresql:
		return NewPostgresOutputter(connURL.ConnectionPath, options)
	case OutputTypeParquet:
		return NewParquetOutputter(fs, connURL.ConnectionPath, options)
	default:
		return nil, errorsx.Errorf("unknown output type: %q. Known types: %s, %s, %s", connURL.Type, OutputTypeTSV, OutputTypePostgresql, OutputTypeParquet)
	}
}

// checkOverwrite returns an error if a file already exists at the path and overwriting is not allowed
func checkOverwrite(fs gofs.Fs, path string, overwrite bool) errorsx.Error {
	if overwrite {
		return nil
	}

	_, err := fs.Stat(path)
	if err == nil {
		return errorsx.Errorf("output file %q already exists. Use the overwrite flag to replace it", path)
	}

	return nil
}

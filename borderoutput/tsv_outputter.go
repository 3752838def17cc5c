package borderoutput

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/osmborder/border"
	"github.com/jamesrr39/osmborder/borderdal"
)

var _ borderdal.Outputter = &TSVOutputter{}

// copyTextEscaper escapes a field for the PostgreSQL COPY text format
var copyTextEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// arrayElementEscaper escapes a quoted element of a PostgreSQL array literal
var arrayElementEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
)

// TSVOutputter writes one line per border, in a format that can be loaded with PostgreSQL's COPY
type TSVOutputter struct {
	fs             gofs.Fs
	path           string
	file           gofs.File
	closed         bool
	writer         *bufio.Writer
	includeNeutral bool
}

func NewTSVOutputter(fs gofs.Fs, path string, options OutputOptions) (*TSVOutputter, errorsx.Error) {
	var err error

	err = checkOverwrite(fs, path, options.Overwrite)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	file, err := fs.Create(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	return &TSVOutputter{
		fs:             fs,
		path:           path,
		file:           file,
		writer:         bufio.NewWriter(file),
		includeNeutral: options.IncludeNeutral,
	}, nil
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func needsArrayQuoting(element string) bool {
	if element == "" || strings.EqualFold(element, "NULL") {
		return true
	}
	return strings.ContainsAny(element, "{},\"\\ \t\n\r")
}

// formatTextArray renders the list as a PostgreSQL array literal, e.g. {A,B}
func formatTextArray(list []string) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, element := range list {
		if i != 0 {
			sb.WriteString(",")
		}
		if needsArrayQuoting(element) {
			sb.WriteString(`"`)
			sb.WriteString(arrayElementEscaper.Replace(element))
			sb.WriteString(`"`)
			continue
		}
		sb.WriteString(element)
	}
	sb.WriteString("}")
	return sb.String()
}

// FormatLine renders the line without the trailing newline
func (o *TSVOutputter) FormatLine(line *border.ClassifiedLine) string {
	fields := []string{
		strconv.FormatInt(line.WayID, 10),
		strconv.Itoa(line.MinAdminLevel),
		formatBool(line.DividingLine),
	}
	if o.includeNeutral {
		fields = append(fields, formatBool(line.Neutral))
	}
	fields = append(fields,
		formatBool(line.Disputed),
		formatTextArray(line.DisputedBy),
		formatTextArray(line.ClaimedBy),
		formatBool(line.Maritime),
		line.Geometry,
	)

	for i, field := range fields {
		fields[i] = copyTextEscaper.Replace(field)
	}

	return strings.Join(fields, "\t")
}

func (o *TSVOutputter) OutputLine(line *border.ClassifiedLine) errorsx.Error {
	_, err := o.writer.WriteString(o.FormatLine(line) + "\n")
	if err != nil {
		return errorsx.Wrap(err, "path", o.path)
	}

	return nil
}

func (o *TSVOutputter) closeFile() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.file.Close()
}

// Commit flushes and closes the file. If it fails, the file is left for Rollback to remove.
func (o *TSVOutputter) Commit() errorsx.Error {
	err := o.writer.Flush()
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
func (o *TSVOutputter) Rollback() errorsx.Error {
	o.closeFile()

	err := o.fs.Remove(o.path)
	if err != nil {
		return errorsx.Wrap(err, "path", o.path)
	}

	return nil
}

package borderoutput

import (
	"os"
	"path/filepath"
	"testing"

	snapshot "github.com/jamesrr39/go-snapshot-testing"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/osmborder/border"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []*border.ClassifiedLine {
	return []*border.ClassifiedLine{
		{
			WayID: 10,
			Classification: border.Classification{
				MinAdminLevel: 2,
				DividingLine:  true,
				Neutral:       true,
			},
			Geometry: "GEOM1",
		}, {
			WayID: 12,
			Classification: border.Classification{
				MinAdminLevel: 4,
				Disputed:      true,
				DisputedBy:    []string{"X B", "XA"},
				ClaimedBy:     []string{"XC"},
				Maritime:      true,
			},
			Geometry: "GEOM2",
		}, {
			WayID: 13,
			Classification: border.Classification{
				MinAdminLevel: 8,
				Disputed:      true,
				DisputedBy:    []string{"A\tB", `Q"R`},
			},
			Geometry: "GEOM3",
		},
	}
}

func TestTSVOutputter(t *testing.T) {
	fs := mockfs.NewMockFs()

	outputter, err := NewTSVOutputter(fs, "/borders.tsv", OutputOptions{IncludeNeutral: true})
	require.NoError(t, err)

	for _, line := range testLines() {
		err = outputter.OutputLine(line)
		require.NoError(t, err)
	}

	err = outputter.Commit()
	require.NoError(t, err)

	b, readErr := fs.ReadFile("/borders.tsv")
	require.NoError(t, readErr)

	snapshot.AssertMatchesSnapshot(t, "TSVOutputter_lines", snapshot.NewTextSnapshot(string(b)))
}

func TestTSVOutputter_FormatLine(t *testing.T) {
	line := testLines()[1]

	withNeutral := &TSVOutputter{includeNeutral: true}
	assert.Equal(t, "12\t4\tfalse\tfalse\ttrue\t{\"X B\",XA}\t{XC}\ttrue\tGEOM2", withNeutral.FormatLine(line))

	withoutNeutral := &TSVOutputter{includeNeutral: false}
	assert.Equal(t, "12\t4\tfalse\ttrue\t{\"X B\",XA}\t{XC}\ttrue\tGEOM2", withoutNeutral.FormatLine(line))
}

func TestTSVOutputter_overwrite(t *testing.T) {
	fs := mockfs.NewMockFs()
	writeErr := fs.WriteFile("/borders.tsv", []byte("existing"), 0600)
	require.NoError(t, writeErr)

	_, err := NewTSVOutputter(fs, "/borders.tsv", OutputOptions{})
	require.Error(t, err)

	outputter, err := NewTSVOutputter(fs, "/borders.tsv", OutputOptions{Overwrite: true})
	require.NoError(t, err)

	err = outputter.Commit()
	require.NoError(t, err)

	b, readErr := fs.ReadFile("/borders.tsv")
	require.NoError(t, readErr)
	assert.Empty(t, b)
}

func TestTSVOutputter_Rollback(t *testing.T) {
	fs := mockfs.NewMockFs()

	outputter, err := NewTSVOutputter(fs, "/borders.tsv", OutputOptions{})
	require.NoError(t, err)

	err = outputter.OutputLine(testLines()[0])
	require.NoError(t, err)

	err = outputter.Rollback()
	require.NoError(t, err)

	_, statErr := fs.Stat("/borders.tsv")
	assert.Error(t, statErr)
}

func TestTSVOutputter_RollbackAfterFailedCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "borders.tsv")

	outputter, err := NewTSVOutputter(gofs.NewOsFs(), path, OutputOptions{})
	require.NoError(t, err)

	err = outputter.OutputLine(testLines()[0])
	require.NoError(t, err)

	// the buffered line can't be flushed to a closed file
	closeErr := outputter.file.Close()
	require.NoError(t, closeErr)

	err = outputter.Commit()
	require.Error(t, err)

	err = outputter.Rollback()
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatTextArray(t *testing.T) {
	tests := []struct {
		name string
		list []string
		want string
	}{
		{"nil", nil, "{}"},
		{"simple", []string{"A", "B"}, "{A,B}"},
		{"space", []string{"North Cyprus"}, `{"North Cyprus"}`},
		{"comma and braces", []string{"a,b", "{c}"}, `{"a,b","{c}"}`},
		{"quote and backslash", []string{`a"b`, `c\d`}, `{"a\"b","c\\d"}`},
		{"null literal", []string{"null"}, `{"null"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTextArray(tt.list))
		})
	}
}

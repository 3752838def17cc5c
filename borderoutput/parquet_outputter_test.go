package borderoutput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesrr39/goutil/gofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
)

func TestParquetOutputter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "borders.parquet")

	outputter, err := NewParquetOutputter(gofs.NewOsFs(), path, OutputOptions{})
	require.NoError(t, err)

	for _, line := range testLines() {
		err = outputter.OutputLine(line)
		require.NoError(t, err)
	}

	err = outputter.Commit()
	require.NoError(t, err)

	fileReader, readErr := local.NewLocalFileReader(path)
	require.NoError(t, readErr)
	defer fileReader.Close()

	parquetReader, readErr := reader.NewParquetReader(fileReader, nil, 1)
	require.NoError(t, readErr)
	defer parquetReader.ReadStop()

	numRows := parquetReader.GetNumRows()
	assert.Equal(t, int64(3), numRows)

	readColumn := func(path string) []interface{} {
		values, _, _, err := parquetReader.ReadColumnByPath(common.ReformPathStr(path), numRows)
		require.NoError(t, err)
		return values
	}

	assert.Equal(t, []interface{}{int64(10), int64(12), int64(13)}, readColumn("parquet_go_root.osm_id"))
	assert.Equal(t, []interface{}{int32(2), int32(4), int32(8)}, readColumn("parquet_go_root.admin_level"))
	assert.Equal(t, []interface{}{true, false, false}, readColumn("parquet_go_root.neutral"))
	assert.Equal(t, []interface{}{false, true, false}, readColumn("parquet_go_root.maritime"))
	assert.Equal(t, []interface{}{"GEOM1", "GEOM2", "GEOM3"}, readColumn("parquet_go_root.way"))
	assert.Equal(t, []interface{}{"X B", "XA", "A\tB", `Q"R`}, nonNilValues(readColumn("parquet_go_root.disputed_by.list.element")))
	assert.Equal(t, []interface{}{"XC"}, nonNilValues(readColumn("parquet_go_root.claimed_by.list.element")))
}

// nonNilValues drops the placeholders read for empty lists
func nonNilValues(values []interface{}) []interface{} {
	var nonNil []interface{}
	for _, value := range values {
		if value != nil {
			nonNil = append(nonNil, value)
		}
	}
	return nonNil
}

func TestParquetOutputter_RollbackAfterFailedCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "borders.parquet")

	outputter, err := NewParquetOutputter(gofs.NewOsFs(), path, OutputOptions{})
	require.NoError(t, err)

	err = outputter.OutputLine(testLines()[0])
	require.NoError(t, err)

	// the row group and footer can't be written to a closed file
	closeErr := outputter.file.Close()
	require.NoError(t, closeErr)

	err = outputter.Commit()
	require.Error(t, err)

	err = outputter.Rollback()
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewParquetLineRow(t *testing.T) {
	row := newParquetLineRow(testLines()[0])

	assert.Equal(t, parquetLineRow{
		OsmID:        10,
		AdminLevel:   2,
		DividingLine: true,
		Neutral:      true,
		DisputedBy:   []string{},
		ClaimedBy:    []string{},
		Way:          "GEOM1",
	}, row)
}

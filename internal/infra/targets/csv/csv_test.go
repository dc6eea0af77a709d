package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []domain.ColumnDef{{Name: "id", Kind: domain.KindInteger}, {Name: "note", Kind: domain.KindText}, {Name: "ok", Kind: domain.KindBool}}

func write(t *testing.T, path string, create bool, rows [][]interface{}) {
	t.Helper()
	tgt := NewCSVTarget(path)
	require.NoError(t, tgt.Connect())
	if create {
		require.NoError(t, tgt.CreateTableIfNotExists("ignored", cols))
	}
	require.NoError(t, tgt.InsertBatch("ignored", []string{"id", "note", "ok"}, rows))
	require.NoError(t, tgt.Close())
}

func TestCSVTarget_CreateAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data.csv")

	write(t, path, true, [][]interface{}{{int64(1), "a, b", true}, {int64(2), "", false}})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,note,ok\n1,\"a, b\",true\n2,,false\n", string(data))

	write(t, path, false, [][]interface{}{{int64(3), "c", true}})
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,note,ok\n1,\"a, b\",true\n2,,false\n3,c,true\n", string(data))

	write(t, path, true, [][]interface{}{{int64(9), "z", false}})
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,note,ok\n9,z,false\n", string(data))
}

func TestCSVTarget_AppendToMissingFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.csv")
	write(t, path, false, [][]interface{}{{int64(1), 2.5, true}})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,note,ok\n1,2.5,true\n", string(data))
}

func TestCSVTarget_Truncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	write(t, path, true, [][]interface{}{{int64(1), "x", true}})

	tgt := NewCSVTarget(path)
	require.NoError(t, tgt.Connect())
	require.NoError(t, tgt.CreateTableIfNotExists("t", cols))
	require.NoError(t, tgt.TruncateTable("t"))
	require.NoError(t, tgt.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,note,ok\n", string(data))
}

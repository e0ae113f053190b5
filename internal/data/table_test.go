package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCellJSON(t *testing.T) {
	var row []Cell
	raw := `["1,200", "£300", "(50)", 12.5, null, true, "n/a", "", {"a": 1}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	want := []float64{1200, 300, -50, 12.5, 0, 0, 0, 0, 0}
	require.Len(t, row, len(want))
	for i, w := range want {
		assert.Equal(t, w, row[i].Num, "cell %d", i)
	}
	assert.Equal(t, "n/a", row[6].String())
	assert.Equal(t, "12.5", row[3].String())
	assert.Equal(t, "", row[4].String())
	assert.Equal(t, "", row[7].String())
}

func TestCellZeroLabel(t *testing.T) {
	var row []Cell
	require.NoError(t, json.Unmarshal([]byte(`[0, "0", null]`), &row))
	assert.Equal(t, "0", row[0].String())
	assert.Equal(t, "0", row[1].String())
	assert.Equal(t, "", row[2].String())

	require.NoError(t, yaml.Unmarshal([]byte("[0, ~]"), &row))
	assert.Equal(t, "0", row[0].String())
	assert.Equal(t, "", row[1].String())

	tbl := &Table{Columns: []string{"Label", "2026-01"}, Rows: [][]Cell{{Number(0), Number(5)}, {}}}
	tbl.normalize()
	assert.Equal(t, "0", text(tbl.Rows[0], 0))
	assert.Equal(t, "", text(tbl.Rows[1], 0))
}

func TestCellYAML(t *testing.T) {
	var row []Cell
	raw := "[1000, 2.5, \"£1,000\", UK, ~]"
	require.NoError(t, yaml.Unmarshal([]byte(raw), &row))

	require.Len(t, row, 5)
	assert.Equal(t, 1000.0, row[0].Num)
	assert.Equal(t, 2.5, row[1].Num)
	assert.Equal(t, 1000.0, row[2].Num)
	assert.Equal(t, "UK", row[3].String())
	assert.Equal(t, Cell{}, row[4])
}

func TestCellMarshal(t *testing.T) {
	raw, err := json.Marshal([]Cell{Text("Harrods"), Number(42)})
	require.NoError(t, err)
	assert.JSONEq(t, `["Harrods", 42]`, string(raw))
}

func TestTableNormalize(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Country", "2026-01"},
		Rows:    [][]Cell{{Text("UK")}, {Text("ES"), Number(1), Number(2)}},
	}
	tbl.normalize()
	assert.Len(t, tbl.Rows[0], 2)
	assert.Len(t, tbl.Rows[1], 2)

	assert.Equal(t, 0, tbl.column("country"))
	assert.Equal(t, -1, tbl.column("Customer"))
}

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wedding-guests/internal/models"
)

func record(pairs ...string) Record {
	r := orderedmap.NewOrderedMap[string, string]()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func reopen(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, name)
	require.NoError(t, err)
	return v
}

func width(t *testing.T, f *excelize.File, col string) float64 {
	t.Helper()
	w, err := f.GetColWidth(SheetName, col)
	require.NoError(t, err)
	return w
}

func TestEmptyExportDoesNothing(t *testing.T) {
	var buf bytes.Buffer
	wrote, err := Write(&buf, nil)
	require.NoError(t, err)
	require.False(t, wrote)
	require.Zero(t, buf.Len())

	dir := t.TempDir()
	path, err := ToDir(dir, []Record{})
	require.NoError(t, err)
	require.Empty(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSingleRecord(t *testing.T) {
	var buf bytes.Buffer
	wrote, err := Write(&buf, []Record{record(
		ColFullName, "א ב",
		ColDescription, "",
		ColSide, "צד כלה",
		ColRelation, "משפחה",
	)})
	require.NoError(t, err)
	require.True(t, wrote)

	f := reopen(t, &buf)
	require.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, ColFullName, cell(t, f, "A1"))
	require.Equal(t, ColDescription, cell(t, f, "B1"))
	require.Equal(t, ColSide, cell(t, f, "C1"))
	require.Equal(t, ColRelation, cell(t, f, "D1"))
	require.Equal(t, "א ב", cell(t, f, "A2"))
	require.Equal(t, "", cell(t, f, "B2"))
	require.Equal(t, "צד כלה", cell(t, f, "C2"))
	require.Equal(t, "משפחה", cell(t, f, "D2"))

	require.GreaterOrEqual(t, width(t, f, "A"), 10.0)
}

func TestColumnWidths(t *testing.T) {
	long := strings.Repeat("ש", 25)
	f, err := Workbook([]Record{
		record(ColFullName, "short", ColDescription, long),
		record(ColFullName, "a somewhat longer name", ColDescription, "x"),
	})
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, float64(len("a somewhat longer name")), width(t, f, "A"))
	require.Equal(t, 25.0, width(t, f, "B"), "width counts characters, not bytes")
}

func TestHeaderDoesNotWidenColumn(t *testing.T) {
	header := "a very long column label indeed"
	f, err := Workbook([]Record{record(header, "v")})
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, 10.0, width(t, f, "A"))
}

func TestHeaderIsUnionOfKeys(t *testing.T) {
	f, err := Workbook([]Record{
		record("a", "1"),
		record("b", "2", "a", "3"),
	})
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, "a", cell(t, f, "A1"))
	require.Equal(t, "b", cell(t, f, "B1"))
	require.Equal(t, "1", cell(t, f, "A2"))
	require.Equal(t, "", cell(t, f, "B2"))
	require.Equal(t, "3", cell(t, f, "A3"))
	require.Equal(t, "2", cell(t, f, "B3"))
}

func TestRelabel(t *testing.T) {
	records := Relabel([]models.Guest{
		{ID: "1", FullName: "Dana Cohen", Side: "צד כלה", Relation: "משפחה"},
		{ID: "2", FullName: "Avi Levi", Description: "best man"},
	})
	require.Len(t, records, 2)

	var keys []string
	for k := range records[0].Keys() {
		keys = append(keys, k)
	}
	require.Equal(t, []string{ColFullName, ColDescription, ColSide, ColRelation}, keys)

	v, _ := records[1].Get(ColDescription)
	require.Equal(t, "best man", v)
	v, _ = records[0].Get(ColSide)
	require.Equal(t, "צד כלה", v)
}

func TestToDirWritesFixedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := ToDir(dir, Relabel([]models.Guest{{ID: "1", FullName: "Dana Cohen"}}))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, FileName), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, "Dana Cohen", cell(t, f, "A2"))
}

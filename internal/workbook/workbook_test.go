package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.xlsx")

	sheets := []Sheet{
		{Name: "Page_1", Rows: [][]string{{"type", "room"}, {"tap", "kitchen"}}},
		{Name: "Page_2", Rows: [][]string{{"type", "room"}, {"boiler", "basement"}}},
	}
	require.NoError(t, Write(path, sheets))

	got, err := ReadSheets(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Page_1", got[0].Name)
	assert.Equal(t, [][]string{{"type", "room"}, {"tap", "kitchen"}}, got[0].Rows)
	assert.Equal(t, "Page_2", got[1].Name)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReadSheetsFromBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	require.NoError(t, Write(path, []Sheet{{Name: "S", Rows: [][]string{{"a"}}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := ReadSheetsFromBytes(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, [][]string{{"a"}}, got[0].Rows)
}

func TestReadSheetsMissingFile(t *testing.T) {
	_, err := ReadSheets(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Page_1", SanitizeSheetName("Page_1"))
	assert.Equal(t, "ab", SanitizeSheetName(`a\/:*?"<>|b`))
	assert.Equal(t, "Sheet", SanitizeSheetName("?"))
	long := SanitizeSheetName("0123456789012345678901234567890123456789")
	assert.Len(t, long, 31)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, IsBlankRow(nil))
	assert.True(t, IsBlankRow([]string{"", "  ", "\t"}))
	assert.False(t, IsBlankRow([]string{"", "x"}))
}

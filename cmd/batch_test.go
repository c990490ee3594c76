package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.PDF", "notes.txt", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	pdfs, err := listPDFs(dir)
	require.NoError(t, err)
	require.Len(t, pdfs, 3)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), pdfs[0])
}

func TestListPDFsMissingDir(t *testing.T) {
	_, err := listPDFs(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestFileNickname(t *testing.T) {
	assert.Equal(t, "school", fileNickname("/data/in/school.pdf"))
	assert.Equal(t, "Lessness Primary School", fileNickname("Lessness Primary School.PDF"))
}

package pdfsplit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePDF emits a minimal but well-formed PDF with empty pages, with the
// cross-reference table computed from the actual byte offsets.
func writePDF(t *testing.T, path string, pageCount int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, pageCount)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	writeObj(fmt.Sprintf(
		"2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n",
		strings.Join(kids, " "), pageCount,
	))
	for i := 0; i < pageCount; i++ {
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R >>\nendobj\n", i+3))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	writePDF(t, path, 3)

	n, err := PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
}

func TestSplitPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	writePDF(t, path, 2)

	pages, err := SplitPages(path, filepath.Join(dir, "pages"))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "doc_1.pdf", filepath.Base(pages[0]))
	assert.Equal(t, "doc_2.pdf", filepath.Base(pages[1]))
	for _, p := range pages {
		n, err := PageCount(p)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
}

func TestTrimPageSelection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.pdf")
	out := filepath.Join(dir, "trimmed.pdf")
	writePDF(t, in, 3)

	require.NoError(t, Trim(in, out, []string{"1-2"}))

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTrimEmptySelectionCopiesWhole(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "nested", "out.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4 content"), 0o644))

	require.NoError(t, Trim(in, out, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 content"), data)
}

func TestTrimMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Trim(filepath.Join(dir, "absent.pdf"), filepath.Join(dir, "out.pdf"), nil)
	require.Error(t, err)
}

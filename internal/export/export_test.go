package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIdeasCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	err := WriteIdeasCSV(buf, []IdeaRow{{
		ID:            7,
		Content:       "more bike racks, please",
		CreatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Department:    "Computing",
		Categories:    []string{"campus", "transport"},
		ViewCount:     3,
		ReactionScore: -1,
	}})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ideaHeader, records[0])
	assert.Equal(t, []string{
		"7", "more bike racks, please", "2024-03-01T12:00:00Z", "Ada", "Lovelace",
		"Computing", "campus;transport", "3", "-1",
	}, records[1])
}

func TestWriteIdeasCSVEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteIdeasCSV(buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteDocumentsZip(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	docs := []Document{
		{IdeaID: 2, Name: "plan.pdf", Path: write("a.pdf", "first")},
		{IdeaID: 2, Name: "plan.pdf", Path: write("b.pdf", "second")},
		{IdeaID: 5, Name: "photo.png", Path: write("c.png", "png")},
	}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteDocumentsZip(buf, docs))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(b)
	}
	assert.Equal(t, map[string]string{
		"2/":             "",
		"2/plan.pdf":     "first",
		"2/plan (1).pdf": "second",
		"5/":             "",
		"5/photo.png":    "png",
	}, contents)
}

func TestWriteDocumentsZipSuffixCollision(t *testing.T) {
	dir := t.TempDir()
	var docs []Document
	for i, name := range []string{"a.pdf", "a.pdf", "a (1).pdf", "a"} {
		p := filepath.Join(dir, fmt.Sprintf("%d.bin", i))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
		docs = append(docs, Document{IdeaID: 1, Name: name, Path: p})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteDocumentsZip(buf, docs))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"1/", "1/a.pdf", "1/a (1).pdf", "1/a (1) (1).pdf", "1/a"}, names)
}

func TestUniqueName(t *testing.T) {
	used := map[string]struct{}{"x.txt": {}, "x (1).txt": {}, "x (2).txt": {}, "y": {}}
	assert.Equal(t, "x (3).txt", uniqueName(used, "x.txt"))
	assert.Equal(t, "y (1)", uniqueName(used, "y"))
	assert.Equal(t, "z.txt", uniqueName(used, "z.txt"))
}

func TestWriteDocumentsZipMissingFile(t *testing.T) {
	err := WriteDocumentsZip(io.Discard, []Document{{IdeaID: 1, Name: "x.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")}})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

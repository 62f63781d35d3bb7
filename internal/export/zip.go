package export

import (
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/klauspost/compress/zip"
)

// Document locates one uploaded file of an idea on disk.
type Document struct {
	IdeaID uint
	Name   string
	Path   string
}

// WriteDocumentsZip archives docs into one folder per idea, named by the idea
// id. Ideas appear in the order their first document does. Names repeated
// within a folder get a numeric suffix.
func WriteDocumentsZip(w io.Writer, docs []Document) error {
	zw := zip.NewWriter(w)

	folders := make(map[uint]map[string]struct{})
	for _, doc := range docs {
		names, ok := folders[doc.IdeaID]
		if !ok {
			names = make(map[string]struct{})
			folders[doc.IdeaID] = names
			if _, err := zw.CreateHeader(&zip.FileHeader{
				Name:     fmt.Sprintf("%d/", doc.IdeaID),
				Method:   zip.Store,
				Modified: time.Now(),
			}); err != nil {
				return err
			}
		}

		name := uniqueName(names, path.Base(doc.Name))
		names[name] = struct{}{}

		if err := addFile(zw, fmt.Sprintf("%d/%s", doc.IdeaID, name), doc.Path); err != nil {
			return err
		}
	}
	return zw.Close()
}

// uniqueName returns base, or the first "stem (n)ext" not yet in used.
func uniqueName(used map[string]struct{}, base string) string {
	if _, taken := used[base]; !taken {
		return base
	}
	ext := path.Ext(base)
	stem := base[:len(base)-len(ext)]
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}

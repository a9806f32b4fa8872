// internal/feed/archive.go
//
// Archive extraction.
//
// Context:
//   - The partner archive is a zip holding exactly one tab-delimited
//     inventory file, though the member name and any folder nesting
//     vary between publishers.  ExtractArchive finds the tabular
//     member and copies it to a predictable sibling path so the parser
//     never cares what the partner called it.
//   - Member names are checked before anything is opened.  An archive
//     carrying an absolute or parent-relative path is refused outright
//     rather than partially processed.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ExtractArchive unpacks the tabular member of the zip at archivePath
// into the same directory and returns its path, which is always
// "<archive base>.txt".
func ExtractArchive(archivePath string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", &ArchiveError{Path: archivePath, Err: err}
	}
	defer r.Close()

	member, err := tabularMember(r.File)
	if err != nil {
		return "", &ArchiveError{Path: archivePath, Err: err}
	}

	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	dest := filepath.Join(filepath.Dir(archivePath), base+".txt")

	if err := copyMember(member, dest); err != nil {
		return "", &ArchiveError{Path: archivePath, Err: err}
	}

	zap.S().Infow("feed archive extracted", "member", member.Name, "file", dest)
	return dest, nil
}

// tabularMember picks the data file: the first .txt or .tsv member, or
// the only regular member when no extension matches.
func tabularMember(files []*zip.File) (*zip.File, error) {
	var regular []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return nil, fmt.Errorf("unsafe member path %q", f.Name)
		}
		regular = append(regular, f)
	}

	for _, f := range regular {
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".txt", ".tsv":
			return f, nil
		}
	}
	if len(regular) == 1 {
		return regular[0], nil
	}
	return nil, fmt.Errorf("no tabular member among %d entries", len(files))
}

func copyMember(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

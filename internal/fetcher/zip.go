package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fipe-cli/internal/failure"
)

// dataExtensions lists the table formats the loader understands.
var dataExtensions = map[string]bool{".csv": true, ".xlsx": true}

// ExtractDataFile extracts the single CSV or XLSX entry of a ZIP archive into
// destDir and returns its path. Archives holding zero or several data files
// are rejected; other entries (READMEs, licenses) are ignored.
func ExtractDataFile(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", failure.New(failure.KindFileNotFound, eris.Wrap(err, "zip: open archive"))
		}
		return "", failure.New(failure.KindParse, eris.Wrap(err, "zip: open archive"))
	}
	defer r.Close() //nolint:errcheck

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if dataExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			files = append(files, f)
		}
	}

	if len(files) != 1 {
		return "", failure.New(failure.KindParse, eris.Errorf("zip: expected exactly 1 data file, got %d", len(files)))
	}

	return extractZIPEntry(files[0], destDir)
}

// extractZIPEntry extracts a single zip.File to the destination directory.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", failure.New(failure.KindParse, eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", failure.New(failure.KindIO, eris.Wrap(err, "zip: create parent directory"))
	}

	rc, err := f.Open()
	if err != nil {
		return "", failure.New(failure.KindParse, eris.Wrap(err, "zip: open entry"))
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", failure.New(failure.KindIO, eris.Wrap(err, "zip: create file"))
	}
	if _, err := copyClose(out, rc); err != nil {
		return "", failure.New(failure.KindIO, eris.Wrap(err, "zip: extract"))
	}

	return destPath, nil
}

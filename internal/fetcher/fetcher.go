// Package fetcher resolves dataset references (local paths, HTTP, FTP, ZIP
// archives) and streams their rows from CSV or XLSX.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/failure"
)

// Fetcher downloads a remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	HTTP    Fetcher // used for http and https references
	FTP     Fetcher // used for ftp references
	TempDir string  // scratch space for downloads and extracted archives; default os.MkdirTemp
}

// Resolved is a dataset reference materialised as a local file.
type Resolved struct {
	Path    string
	Remote  bool
	cleanup func()
}

// Close removes any scratch files created while resolving.
func (r *Resolved) Close() {
	if r.cleanup != nil {
		r.cleanup()
	}
}

// Resolve turns a dataset reference into a readable local file. Remote
// references are downloaded and ZIP archives are unpacked; the caller must
// Close the result.
func Resolve(ctx context.Context, ref string, opts ResolveOptions) (*Resolved, error) {
	res := &Resolved{Path: ref}

	scheme := referenceScheme(ref)
	if scheme != "" || isZIP(ref) {
		dir := opts.TempDir
		if dir == "" {
			tmp, err := os.MkdirTemp("", "fipe-cli-*")
			if err != nil {
				return nil, failure.New(failure.KindIO, eris.Wrap(err, "fetcher: create temp dir"))
			}
			dir = tmp
			res.cleanup = func() { _ = os.RemoveAll(tmp) }
		}

		if scheme != "" {
			path, err := download(ctx, ref, scheme, dir, opts)
			if err != nil {
				res.Close()
				return nil, err
			}
			res.Path = path
			res.Remote = true
		}

		if isZIP(res.Path) {
			path, err := ExtractDataFile(res.Path, dir)
			if err != nil {
				res.Close()
				return nil, err
			}
			res.Path = path
		}
	}

	if _, err := os.Stat(res.Path); err != nil {
		res.Close()
		return nil, failure.New(failure.KindFileNotFound, eris.Wrapf(err, "fetcher: dataset %s", ref))
	}

	return res, nil
}

func download(ctx context.Context, ref, scheme, dir string, opts ResolveOptions) (string, error) {
	var f Fetcher
	switch scheme {
	case "http", "https":
		f = opts.HTTP
		if f == nil {
			f = NewHTTPFetcher(HTTPOptions{})
		}
	case "ftp":
		f = opts.FTP
		if f == nil {
			f = NewFTPFetcher(FTPOptions{})
		}
	default:
		return "", failure.New(failure.KindFileNotFound, eris.Errorf("fetcher: unsupported scheme %q", scheme))
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", failure.New(failure.KindFileNotFound, eris.Wrap(err, "fetcher: parse url"))
	}
	name := filepath.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "dataset.csv"
	}
	dest := filepath.Join(dir, name)

	start := time.Now()
	n, err := f.DownloadToFile(ctx, ref, dest)
	if err != nil {
		return "", failure.New(failure.KindFileNotFound, eris.Wrapf(err, "fetcher: download %s", ref))
	}

	zap.L().Info("fetcher: dataset downloaded",
		zap.String("url", ref),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return dest, nil
}

// referenceScheme returns the lower-cased URL scheme of ref, or "" for local paths.
func referenceScheme(ref string) string {
	i := strings.Index(ref, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(ref[:i])
}

func isZIP(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

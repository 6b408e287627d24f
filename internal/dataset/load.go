package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fipe-cli/internal/failure"
	"github.com/sells-group/fipe-cli/internal/fetcher"
)

// LoadOptions configures Load.
type LoadOptions struct {
	Charset   string
	Delimiter rune
	Sheet     string
	TrimSpace bool // strip surrounding blanks from CSV cells
	Resolve   fetcher.ResolveOptions
}

// Load reads the dataset referenced by ref (local path, http(s)/ftp URL, or
// ZIP archive) into memory. CSV is assumed unless the file ends in .xlsx.
// A missing file fails with KindFileNotFound, a malformed one with KindParse.
func Load(ctx context.Context, ref string, opts LoadOptions) (*Table, error) {
	start := time.Now()

	res, err := fetcher.Resolve(ctx, ref, opts.Resolve)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	var t *Table
	if strings.EqualFold(filepath.Ext(res.Path), ".xlsx") {
		t, err = loadXLSX(res.Path, opts)
	} else {
		t, err = loadCSV(ctx, res.Path, opts)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", ref)
	}

	zap.L().Info("dataset: loaded",
		zap.String("ref", ref),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}

func loadCSV(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.New(failure.KindFileNotFound, eris.Wrap(err, "open csv"))
		}
		return nil, failure.New(failure.KindIO, eris.Wrap(err, "open csv"))
	}
	defer f.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		Delimiter: opts.Delimiter,
		Charset:   opts.Charset,
		HeaderCh:  headerCh,
		TrimSpace: opts.TrimSpace,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return nil, failure.New(failure.KindParse, err)
		}
	}

	var header []string
	select {
	case header = <-headerCh:
	default:
	}
	if header == nil {
		return nil, failure.New(failure.KindParse, eris.New("no columns to parse from file"))
	}

	return New(header, rows)
}

func loadXLSX(path string, opts LoadOptions) (*Table, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: opts.Sheet})
	if err != nil {
		return nil, failure.New(failure.KindParse, err)
	}
	if len(rows) == 0 {
		return nil, failure.New(failure.KindParse, eris.New("no columns to parse from sheet"))
	}

	header := rows[0]
	data := rows[1:]
	// Sheets drop trailing empty cells; pad to the header width.
	for i, row := range data {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			data[i] = padded
		}
	}
	return New(header, data)
}

package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Options configures ReadFile.
type Options struct {
	NA    *NA    // placeholders to blank; nil applies the built-in list
	Sheet string // XLSX sheet name; first sheet when empty
}

// ReadFile loads a .csv, .txt, .tsv or .xlsx file into a Frame and blanks
// NA cells. Text files other than .csv have their delimiter detected.
func ReadFile(ctx context.Context, path string, opts Options) (*Frame, error) {
	var (
		f   *Frame
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		f, err = ReadXLSX(path, XLSXOptions{SheetName: opts.Sheet})
	case ".csv", ".txt", ".tsv":
		f, err = readText(ctx, path, ext)
	default:
		return nil, eris.Errorf("tabular: unsupported file type %q for %s", ext, path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: read %s", path)
	}

	f.Blank(opts.NA)
	return f, nil
}

func readText(ctx context.Context, path, ext string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close() //nolint:errcheck

	opts := CSVOptions{LazyQuotes: true}
	switch ext {
	case ".csv":
		opts.Delimiter = ','
	case ".tsv":
		opts.Delimiter = '\t'
	default:
		opts.Sniff = true
	}
	return ReadCSV(ctx, fh, opts)
}

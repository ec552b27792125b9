package tabular

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','; 0 with Sniff set detects it
	Sniff      bool // detect the delimiter from the first line
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

// StreamCSV reads delimited rows and sends them to a channel, header
// included. Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		br := bufio.NewReader(r)
		delim := opts.Delimiter
		if delim == 0 && opts.Sniff {
			first, _ := br.Peek(4096)
			delim = SniffDelimiter(string(first))
		}

		reader := csv.NewReader(br)
		if delim != 0 {
			reader.Comma = delim
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1
		reader.ReuseRecord = false

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSV reads a whole delimited stream into a Frame. The first row is the
// header. An empty stream is an error.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Frame, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var header []string
	var rows [][]string
	for row := range rowCh {
		if header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if header == nil {
		return nil, eris.New("csv: no header row")
	}
	return NewFrame(header, rows), nil
}

// SniffDelimiter picks the most frequent of pipe, tab and comma in the first
// line of sample. Comma wins when none appear.
func SniffDelimiter(sample string) rune {
	line := sample
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		line = sample[:i]
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{'|', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

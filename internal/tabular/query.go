package tabular

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/db"
)

// ReadQuery runs sql against pool and collects the result into a Frame.
// Values are rendered as strings; NULL becomes "".
func ReadQuery(ctx context.Context, pool db.Pool, sql string, args ...any) (*Frame, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "query: execute")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	var out [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "query: scan row")
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = render(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "query: iterate rows")
	}

	return NewFrame(header, out), nil
}

// SelectAll builds a SELECT * for a possibly schema-qualified table name.
func SelectAll(table string) string {
	return "SELECT * FROM " + db.Identifier(table).Sanitize()
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

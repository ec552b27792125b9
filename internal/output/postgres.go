package output

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/db"
	"github.com/zestai/zrp/internal/model"
)

// proxyColumns are the result table columns: id, one lowercase column per
// class, label and source.
func proxyColumns() []db.Column {
	cols := make([]db.Column, 0, len(model.Classes)+3)
	cols = append(cols, db.Column{Name: "id", Type: "TEXT"})
	for _, c := range model.Classes {
		cols = append(cols, db.Column{Name: strings.ToLower(c), Type: "DOUBLE PRECISION"})
	}
	return append(cols,
		db.Column{Name: "label", Type: "TEXT"},
		db.Column{Name: "source", Type: "TEXT"},
	)
}

// CopyToPostgres upserts results into table, creating it when absent. Rows
// are keyed by id so a rerun over the same input replaces earlier results.
// Missing probabilities and labels are stored as NULL.
func CopyToPostgres(ctx context.Context, pool db.Pool, table string, results []model.ProxyResult) (int64, error) {
	if table == "" {
		return 0, eris.New("output: postgres table name is empty")
	}

	cols := proxyColumns()
	if err := db.EnsureTable(ctx, pool, table, cols, []string{"id"}); err != nil {
		return 0, eris.Wrap(err, "output: ensure result table")
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	rows := make([][]any, 0, len(results))
	for _, r := range results {
		row := make([]any, 0, len(cols))
		row = append(row, r.ID)
		for _, c := range model.Classes {
			if p, ok := r.Probabilities[c]; ok {
				row = append(row, p)
			} else {
				row = append(row, nil)
			}
		}
		var label any
		if r.Label != "" {
			label = r.Label
		}
		rows = append(rows, append(row, label, string(r.Source)))
	}

	n, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        table,
		Columns:      names,
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "output: upsert results")
	}

	zap.L().With(zap.String("component", "output.postgres")).Info("results written",
		zap.String("table", table),
		zap.Int64("rows", n),
	)
	return n, nil
}

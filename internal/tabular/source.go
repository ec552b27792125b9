package tabular

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/db"
)

// Source is where a table comes from. It is a closed set: InMemory,
// FilePath and PostgresTable. Each is resolved once, at load time.
type Source interface {
	Load(ctx context.Context) (*Frame, error)
	String() string
	sealed()
}

// InMemory is a table already held in memory.
type InMemory struct {
	Frame *Frame
}

// FilePath is a .csv, .txt, .tsv or .xlsx file on disk.
type FilePath struct {
	Path string
	NA   *NA
}

// PostgresTable is a table read in full from Postgres.
type PostgresTable struct {
	Pool  db.Pool
	Table string
	NA    *NA
}

func (InMemory) sealed()      {}
func (FilePath) sealed()      {}
func (PostgresTable) sealed() {}

// Load returns the frame. A nil Frame is an error.
func (s InMemory) Load(context.Context) (*Frame, error) {
	if s.Frame == nil {
		return nil, eris.New("tabular: in-memory source has no frame")
	}
	return s.Frame, nil
}

func (s InMemory) String() string { return "memory" }

// Load reads the file.
func (s FilePath) Load(ctx context.Context) (*Frame, error) {
	return ReadFile(ctx, s.Path, Options{NA: s.NA})
}

func (s FilePath) String() string { return s.Path }

// Load selects every row of the table and blanks NA cells.
func (s PostgresTable) Load(ctx context.Context) (*Frame, error) {
	if s.Pool == nil {
		return nil, eris.Errorf("tabular: no pool for table %s", s.Table)
	}
	f, err := ReadQuery(ctx, s.Pool, SelectAll(s.Table))
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: read table %s", s.Table)
	}
	f.Blank(s.NA)
	return f, nil
}

func (s PostgresTable) String() string { return "postgres:" + s.Table }

// SourceFor picks a PostgresTable when table is set and a pool is given,
// otherwise a FilePath. It returns nil when neither is configured.
func SourceFor(path, table string, pool db.Pool, na *NA) Source {
	switch {
	case table != "" && pool != nil:
		return PostgresTable{Pool: pool, Table: table, NA: na}
	case path != "":
		return FilePath{Path: path, NA: na}
	default:
		return nil
	}
}

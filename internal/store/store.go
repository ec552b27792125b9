// Package store persists run summaries.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/zestai/zrp/internal/model"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = eris.New("store: run not found")

// Store records pipeline runs.
type Store interface {
	CreateRun(ctx context.Context, command, input string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, readout *model.Readout) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 20

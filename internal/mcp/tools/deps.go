package tools

import (
	"github.com/usestring/jsl-infer/internal/cache"
	"github.com/usestring/jsl-infer/internal/catalog"
	"github.com/usestring/jsl-infer/internal/config"
	"github.com/usestring/jsl-infer/pkg/shape"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config  *config.Config
	Merger  *shape.Merger
	Schemas *catalog.SchemaStore
}

// NewDeps builds the shared dependencies from configuration. The merger's
// timestamp detector is memoized across tool calls.
func NewDeps(cfg *config.Config) (*Deps, error) {
	detect, err := cache.Detector(cfg.TimestampCacheSize, shape.IsTimestamp)
	if err != nil {
		return nil, err
	}
	schemas, err := catalog.NewSchemaStore(cfg.SchemaStoreSize)
	if err != nil {
		return nil, err
	}
	return &Deps{
		Config:  cfg,
		Merger:  shape.NewMerger(shape.WithTimestampDetector(detect)),
		Schemas: schemas,
	}, nil
}

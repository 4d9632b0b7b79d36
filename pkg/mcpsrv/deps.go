package mcpsrv

import (
	"github.com/usestring/jsl-infer/internal/catalog"
	"github.com/usestring/jsl-infer/internal/config"
	"github.com/usestring/jsl-infer/pkg/shape"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config  *config.Config
	Merger  *shape.Merger
	Schemas *catalog.SchemaStore
}

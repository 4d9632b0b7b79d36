// Package infer drives schema inference: it folds a stream of records into a
// single shape and exports it once at the end.
package infer

import (
	"github.com/usestring/jsl-infer/pkg/hint"
	"github.com/usestring/jsl-infer/pkg/jsl"
	"github.com/usestring/jsl-infer/pkg/shape"
)

// Inferrer accumulates observed values. It is not safe for concurrent use;
// Run serializes every Observe call.
type Inferrer struct {
	merger *shape.Merger
	hints  *hint.Node
	shape  *shape.Shape
	count  int
}

// Option configures an Inferrer.
type Option func(*Inferrer)

// WithHints sets the hint tree consulted at every path.
func WithHints(h *hint.Node) Option {
	return func(i *Inferrer) {
		i.hints = h
	}
}

// WithMerger replaces the default merger, e.g. to install a cached
// timestamp detector.
func WithMerger(m *shape.Merger) Option {
	return func(i *Inferrer) {
		if m != nil {
			i.merger = m
		}
	}
}

// New creates an Inferrer whose accumulated shape starts as Unknown.
func New(opts ...Option) *Inferrer {
	i := &Inferrer{
		merger: shape.NewMerger(),
		shape:  shape.Unknown(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Observe folds one value into the accumulated shape.
func (i *Inferrer) Observe(v any) {
	i.shape = i.merger.Merge(i.shape, v, i.hints)
	i.count++
}

// Count returns the number of values observed.
func (i *Inferrer) Count() int {
	return i.count
}

// Shape returns the accumulated shape. It is owned by the Inferrer and must
// not be modified.
func (i *Inferrer) Shape() *shape.Shape {
	return i.shape
}

// Schema exports the accumulated shape. With no observations the result is
// the empty form.
func (i *Inferrer) Schema() *jsl.Schema {
	return shape.Export(i.shape)
}

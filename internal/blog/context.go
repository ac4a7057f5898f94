package blog

import "context"

type contextKey int

const datasetKey contextKey = iota

// NewContext returns a copy of ctx carrying ds.
func NewContext(ctx context.Context, ds *Dataset) context.Context {
	return context.WithValue(ctx, datasetKey, ds)
}

// FromContext returns the dataset attached to ctx, or nil.
func FromContext(ctx context.Context) *Dataset {
	ds, _ := ctx.Value(datasetKey).(*Dataset)
	return ds
}

package geocode

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SearchAll queries every adapter concurrently and concatenates the results
// in adapter order. Adapters never surface errors; a failed provider simply
// contributes nothing.
func SearchAll(ctx context.Context, adapters []Adapter, query string) []Suggestion {
	results := make([][]Suggestion, len(adapters))

	g, ctx := errgroup.WithContext(ctx)
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			results[i] = a.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	var out []Suggestion
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

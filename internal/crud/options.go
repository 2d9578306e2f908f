package crud

import (
	"context"
	"fmt"
	"strconv"

	"zerostour/internal/listing"

	"golang.org/x/sync/errgroup"
)

// Option is one entry of a select box.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Labeled is a record that can back a select box.
type Labeled interface {
	Record
	Label() string
}

// OptionLoader fetches the options of one select box.
type OptionLoader func(ctx context.Context, search string) ([]Option, error)

// FirstPage loads options from the first page of src.
func FirstPage[T Labeled](src listing.Source[T], q listing.Query) OptionLoader {
	return func(ctx context.Context, search string) ([]Option, error) {
		q := q
		q.Page = 1
		q.Search = search
		page, err := src.List(ctx, q.Request())
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(page.Items))
		for _, item := range page.Items {
			out = append(out, Option{Value: strconv.FormatInt(item.Key(), 10), Label: item.Label()})
		}
		return out, nil
	}
}

// LoadOptions runs every loader in parallel. If any of them fails nothing
// is returned, so a dialog never shows half its choices.
func LoadOptions(ctx context.Context, search string, loaders map[string]OptionLoader) (map[string][]Option, error) {
	results := make(map[string][]Option, len(loaders))
	lists := make([][]Option, 0, len(loaders))
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
		lists = append(lists, nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		load := loaders[name]
		g.Go(func() error {
			opts, err := load(gctx, search)
			if err != nil {
				return fmt.Errorf("load %s options: %w", name, err)
			}
			lists[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range names {
		results[name] = lists[i]
		if results[name] == nil {
			results[name] = []Option{}
		}
	}
	return results, nil
}

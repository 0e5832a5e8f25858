package domain

import (
	"context"

	"golang.org/x/sync/errgroup"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// mapFiles runs fn for every file with at most threads concurrent calls and
// returns the results in the order of files.
func mapFiles[T any](ctx context.Context, files []m.File, threads int, fn func(ctx context.Context, file m.File) T) ([]T, error) {
	results := make([]T, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i, file := range files {
		index, currentFile := i, file

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[index] = fn(groupCtx, currentFile)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

// loadAll runs the loaders concurrently and waits for all of them. The first
// failure is returned and the others are cancelled; callers never see a
// partially loaded page.
func loadAll(ctx context.Context, loaders ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		load := load
		g.Go(func() error { return load(gctx) })
	}
	return g.Wait()
}

// pageError collapses any loader failure into the single page-level error.
// The HTTP status of the cause is kept so the shell can tell an expired
// session from a server problem.
func pageError(page string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrPageLoad.Code, appErrors.StatusOf(err), fmt.Sprintf("Could not load %s. Try again.", page))
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zerostour/internal/catalog"
	"zerostour/internal/crud"
	"zerostour/internal/resource"

	"github.com/spf13/cobra"
)

// NewCommand builds the zerosctl command tree.
func NewCommand(ctx context.Context) *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:          "zerosctl",
		Short:        "Manage the Zeros Tour fleet from the terminal",
		Long:         "zerosctl lists, adds, edits and deletes vehicles, vehicle types and services through the Zeros Tour API, and previews trip search results.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.setupLogging()
		},
	}
	cmd.SetContext(ctx)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newScreensCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newTripsCommand(),
	)
	return cmd
}

// dashboard builds the screen registry against the configured API.
func dashboard(opts *Options) (*catalog.Registry, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	cfg := opts.Config()
	return catalog.NewDashboard(cfg, resource.NewClient(cfg.API), crud.Notify), nil
}

func openScreen(opts *Options, slug string) (catalog.Screen, error) {
	reg, err := dashboard(opts)
	if err != nil {
		return nil, err
	}
	screen, err := reg.GetForRole(slug, opts.Role)
	if err != nil {
		return nil, fmt.Errorf("%w (known: %s)", err, strings.Join(slugs(reg), ", "))
	}
	return screen, nil
}

func slugs(reg *catalog.Registry) []string {
	var out []string
	for _, info := range reg.Infos() {
		out = append(out, info.Slug)
	}
	return out
}

// failure turns a screen error into what the user should read.
func failure(err error, out catalog.Outcome) error {
	switch {
	case err == nil:
		return nil
	case out.Pending != nil && out.Pending.Error != "":
		return errors.New(out.Pending.Error)
	case out.FormError != "":
		return errors.New(out.FormError)
	case errors.Is(err, catalog.ErrNotListed):
		return fmt.Errorf("%w; pick the page with --page or narrow it with --search", err)
	case errors.Is(err, catalog.ErrFieldsFail):
		return err
	}
	return errors.New(resource.UserMessage(err, err.Error()))
}

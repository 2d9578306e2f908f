package app

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"zerostour/internal/catalog"
	"zerostour/internal/listing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// pageFlags selects the page a command works on.
type pageFlags struct {
	Page   int
	Search string
}

func (p *pageFlags) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&p.Page, "page", 1, "Page to show or to find the record on.")
	fs.StringVar(&p.Search, "search", "", "Free-text search.")
}

// position starts with an unknown page count; a page past the end ends
// up on the last page.
func (p *pageFlags) position(opts *Options) listing.Position {
	q := catalog.DefaultQuery(opts.Config().Dashboard)
	q.Page = max(p.Page, 1)
	q.Search = strings.TrimSpace(p.Search)
	return listing.Position{Query: q}
}

func newScreensCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the resources the current role can manage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := dashboard(opts)
			if err != nil {
				return err
			}
			printScreens(cmd.OutOrStdout(), reg.InfosForRole(opts.Role))
			return nil
		},
	}
}

func newListCommand(opts *Options) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:     "list SCREEN",
		Short:   "Show one page of a resource",
		Example: "  zerosctl list vehicles --page 2 --search coach",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := openScreen(opts, args[0])
			if err != nil {
				return err
			}
			out := screen.List(cmd.Context(), page.position(opts))
			printOutcome(cmd.OutOrStdout(), screen.Info(), out)
			if out.Footer.Error != "" {
				return fmt.Errorf("could not load %s", screen.Info().Title)
			}
			return nil
		},
	}
	page.AddFlags(cmd.Flags())
	return cmd
}

func newAddCommand(opts *Options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "add SCREEN --set field=value...",
		Short:   "Create a record",
		Example: "  zerosctl add vehicle-types --set name=Minibus --set quantity=20",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			screen, err := openScreen(opts, args[0])
			if err != nil {
				return err
			}
			at := listing.Position{Query: catalog.DefaultQuery(opts.Config().Dashboard)}
			out, err := screen.Create(cmd.Context(), at, fields)
			if err != nil {
				return failure(err, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created.")
			printOutcome(cmd.OutOrStdout(), screen.Info(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field to set, as name=value. Repeatable.")
	return cmd
}

func newEditCommand(opts *Options) *cobra.Command {
	var (
		sets []string
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:     "edit SCREEN ID --set field=value...",
		Short:   "Change fields of a record on the selected page",
		Example: "  zerosctl edit vehicle-types 12 --set quantity=45",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			screen, err := openScreen(opts, args[0])
			if err != nil {
				return err
			}
			out, err := screen.Update(cmd.Context(), page.position(opts), id, fields)
			if err != nil {
				return failure(err, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			printOutcome(cmd.OutOrStdout(), screen.Info(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field to set, as name=value. Repeatable.")
	page.AddFlags(cmd.Flags())
	return cmd
}

func newDeleteCommand(opts *Options) *cobra.Command {
	var (
		yes  bool
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:     "delete SCREEN ID",
		Short:   "Delete a record on the selected page",
		Example: "  zerosctl delete vehicles 7 --page 2 --yes",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			screen, err := openScreen(opts, args[0])
			if err != nil {
				return err
			}
			out, err := screen.SelectDelete(cmd.Context(), page.position(opts), id)
			if err != nil {
				return failure(err, out)
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s %d? [y/N] ", screen.Info().Name, id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes", "s", "si", "sí":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			out, err = screen.ConfirmDelete(cmd.Context(), out.Position, id)
			if err != nil {
				return failure(err, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			printOutcome(cmd.OutOrStdout(), screen.Info(), out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	page.AddFlags(cmd.Flags())
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseSets reads name=value pairs. Values stay text; the form converts
// them to the field types.
func parseSets(sets []string) (map[string]any, error) {
	fields := make(map[string]any, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: want name=value", s)
		}
		fields[name] = value
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to set; use --set name=value")
	}
	return fields, nil
}

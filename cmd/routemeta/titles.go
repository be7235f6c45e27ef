package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/router"
	"github.com/vango-dev/routemeta/pkg/server"
)

func titlesCmd(flags *globalFlags) *cobra.Command {
	var (
		sets   []string
		params []string
	)

	cmd := &cobra.Command{
		Use:   "titles [route...]",
		Short: "Print the document title of every route",
		Long: `Activate each terminal route in turn and print its document title.

Controller fields are set with --set route:field=value, and path
parameters for the demo's model lookups with --param name=value.

Examples:
  routemeta titles
  routemeta titles members.show --param user_id=1
  routemeta titles --set members.show:name=Ann`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			root, err := loadTree(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			r, err := router.ToRouter(root, router.Config{Logger: logger})
			if err != nil {
				return err
			}
			reg := registry.New(r.Root(), registry.WithLogger(logger))

			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			p, err := parsePairs(params)
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				for _, n := range r.Leaves() {
					names = append(names, n.FullName())
				}
			}
			return printTitles(cmd.Context(), cmd.OutOrStdout(), reg, names, fields, p, fieldsFor(cfg))
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a controller field: route:field=value")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Path parameter: name=value")
	return cmd
}

// parsePairs splits name=value arguments.
func parsePairs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, errors.New("E170").WithDetail(fmt.Sprintf("expected name=value, got %q", a))
		}
		out[k] = v
	}
	return out, nil
}

// parseSets groups route:field=value arguments by route.
func parseSets(args []string) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	for _, a := range args {
		name, assignment, ok := strings.Cut(a, ":")
		if !ok || name == "" {
			return nil, errors.New("E170").WithDetail(fmt.Sprintf("expected route:field=value, got %q", a))
		}
		pair, err := parsePairs([]string{assignment})
		if err != nil {
			return nil, err
		}
		if out[name] == nil {
			out[name] = make(map[string]any)
		}
		for k, v := range pair {
			out[name][k] = v
		}
	}
	return out, nil
}

func printTitles(ctx context.Context, w io.Writer, reg *registry.Registry, names []string, sets map[string]map[string]any, params map[string]string, fieldsFn server.FieldsFunc) error {
	for name, fields := range sets {
		if err := setFields(reg, name, fields); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tPATH\tTITLE")
	for _, name := range names {
		n, ok := reg.MetaForRoute(name)
		if !ok {
			return errors.New("E103").WithRoute(name)
		}
		if fieldsFn != nil {
			if f := fieldsFn(name, params); f != nil {
				n.Controller().SetFields(f)
			}
		}
		if f := sets[name]; f != nil {
			n.Controller().SetFields(f)
		}
		if err := reg.Activate(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, n.FullPath(), reg.CurrentTitle())
	}
	return tw.Flush()
}

func setFields(reg *registry.Registry, name string, fields map[string]any) error {
	n, ok := reg.MetaForRoute(name)
	if !ok {
		return errors.New("E103").WithRoute(name)
	}
	n.Controller().SetFields(fields)
	return nil
}

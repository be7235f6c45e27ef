package main

import (
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
	"github.com/vango-dev/routemeta/internal/logging"
	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/router"
)

func treeCmd(flags *globalFlags) *cobra.Command {
	var mapLog bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the materialized route tree",
		Long: `Print the route tree as the router sees it, after every resource
gained its index route.

With --log, print the registration log instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			root, err := loadTree(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if mapLog {
				return router.Map(root, &router.Recorder{}, logging.New("debug", cfg.Log.Format, cmd.OutOrStdout()))
			}
			return printTree(cmd.OutOrStdout(), root)
		},
	}

	cmd.Flags().BoolVar(&mapLog, "log", false, "Print the registration log")
	return cmd
}

// printTree materializes root and draws it.
func printTree(w io.Writer, root *route.Node) error {
	rec, err := router.Record(root)
	if err != nil {
		return err
	}

	top := gtree.NewRoot(describe(root))
	parents := []*gtree.Node{top}
	rec.Walk(func(fullName string, reg router.Registration, depth int) {
		parents = parents[:depth+1]
		node := parents[depth].Add(fmt.Sprintf("%s %s (%s)", reg.Kind, reg.Name, reg.Path))
		parents = append(parents, node)
	})
	return gtree.OutputProgrammably(w, top)
}

func describe(n *route.Node) string {
	return fmt.Sprintf("%s (%s) title=%s", n.Name(), n.Path(), n.TitleSpec())
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages with live document titles",
		Long: `Serve every mapped route as a page whose <title> is the route's
document title, with a websocket feed that keeps it live.

Examples:
  routemeta serve
  routemeta serve --port=8080
  routemeta serve --manifest=s3://my-bucket/routes.hcl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			root, err := loadTree(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			app := fx.New(appOptions(cfg, root, logger))
			if err := app.Err(); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Serving %s on http://%s", root.Name(), cfg.Address())
			app.Run()
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from routemeta.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routemeta.json)")
	return cmd
}

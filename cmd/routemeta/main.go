package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routemeta/internal/config"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir       string
	manifest  string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if re, ok := err.(*errors.RouteError); ok {
			fmt.Fprintln(os.Stderr, re.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routemeta",
		Short: "Route metadata trees with composed document titles",
		Long: `routemeta declares nested routes and resources once and derives
full route names, paths and document titles from the tree.

The tree comes from the manifest named in routemeta.json (HCL or YAML,
local or s3://), or the built-in members demo when none is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.dir, "config", "c", ".", "Directory containing "+config.ConfigFileName)
	pf.StringVarP(&flags.manifest, "manifest", "m", "", "Route manifest (overrides the config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(flags),
		treeCmd(flags),
		titlesCmd(flags),
		initCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration, applies flag overrides and installs the
// configured logger as the default.
func (f *globalFlags) load(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrNew(f.dir)
	if err != nil {
		return nil, nil, err
	}
	if f.manifest != "" {
		cfg.Manifest = f.manifest
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

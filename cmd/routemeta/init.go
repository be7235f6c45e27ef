package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routemeta/internal/config"
	"github.com/vango-dev/routemeta/internal/errors"
)

// ManifestFileName is the manifest written by init.
const ManifestFileName = "routes.hcl"

const sampleManifest = `application {
  title = "My App"
}

route "home@/" {
  title = false
}

route "about" {}

route "posts" {
  title = "Posts"

  route "show@:post_id" {
    title = "{{title}}"
  }
  route "new" {
    title       = "New Post"
    reset_title = true
  }
}

route "not-found@*" {}
`

func initCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config and route manifest",
		Long: `Write routemeta.json and a sample routes.hcl into the config directory.

Existing files are left alone unless --force is given.

Examples:
  routemeta init
  routemeta init -c ./site --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags.dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E120").Wrap(err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	manifestPath := filepath.Join(dir, ManifestFileName)
	if !force {
		for _, p := range []string{configPath, manifestPath} {
			if _, err := os.Stat(p); err == nil {
				return errors.New("E140").
					WithDetail(p + " already exists").
					WithSuggestion("Pass --force to overwrite it")
			}
		}
	}

	if err := os.WriteFile(manifestPath, []byte(sampleManifest), 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	cfg := config.New()
	cfg.Manifest = ManifestFileName
	if err := cfg.SaveTo(configPath); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	success(w, "Wrote %s", configPath)
	success(w, "Wrote %s", manifestPath)
	info(w, "Run 'routemeta tree -c %s' to inspect the routes", dir)
	return nil
}

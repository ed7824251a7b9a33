package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/compose/internal/config"
	cerrors "github.com/vango-dev/compose/internal/errors"
)

const sampleComponent = `<p>Hello, <span data-text="name"></span>!</p>
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create compose.json and a sample component",
		Long: `Create compose.json with default settings and a components
directory holding a sample "hello" component.

Examples:
  compose init
  compose init ./site
  compose render hello --param name=World`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return cerrors.Newf(cerrors.CategoryConfig, "compose.json already exists in %s", dir).
					WithSuggestion("Pass --force to overwrite it.")
			}

			cfg := config.New()
			components := filepath.Join(dir, cfg.Registry.Dir)
			if err := os.MkdirAll(components, 0755); err != nil {
				return err
			}
			if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
				return err
			}

			sample := filepath.Join(components, "hello.html")
			if _, err := os.Stat(sample); os.IsNotExist(err) {
				if err := os.WriteFile(sample, []byte(sampleComponent), 0644); err != nil {
					return err
				}
			}

			success("Created %s", filepath.Join(dir, config.ConfigFileName))
			info("Try: compose render hello --param name=World")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing compose.json")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

func listCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available components",
		Long:  `List the components in the configured directory. Only the dir source can be listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			names := newStack(cfg, newLogger(cfg, os.Stderr)).names()
			if names == nil {
				return cerrors.New("E302").WithDetailf("the %s source cannot be listed", cfg.Registry.Source)
			}

			list, err := names()
			if err != nil {
				return err
			}
			for _, name := range list {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

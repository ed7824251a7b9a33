package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/compose"
)

func renderCmd(configDir *string) *cobra.Command {
	var (
		params     []string
		paramsJSON string
		raw        bool
		pretty     bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render a component to HTML",
		Long: `Render a component and print its HTML.

Nested components are loaded and mounted before the output is
written. Binding attributes are stripped unless --raw is set.

Examples:
  compose render card --param title=Hello
  compose render page --json '{"items": ["a", "b"]}' --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params, paramsJSON)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			st := newStack(cfg, newLogger(cfg, os.Stderr))

			var opts []compose.RenderOption
			if raw {
				opts = append(opts, compose.Raw())
			}
			if pretty {
				opts = append(opts, compose.Pretty())
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			html, err := st.engine().Render(ctx, args[0], values, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Component parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&paramsJSON, "json", "", "Component parameters as a JSON object")
	cmd.Flags().BoolVar(&raw, "raw", false, "Keep binding attributes in the output")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum time to wait for the component tree")

	return cmd
}

// parseParams merges a JSON object with key=value pairs. Pairs win.
func parseParams(pairs []string, rawJSON string) (map[string]any, error) {
	params := make(map[string]any)
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &params); err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--param %q: want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

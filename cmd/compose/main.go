package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌┬┐┌─┐┌─┐┌─┐┌─┐
  │  │ ││││├─┘│ │└─┐├┤
  └─┘└─┘┴ ┴┴  └─┘└─┘└─┘
`

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "compose",
		Short: "Render and serve reactive components",
		Long: `compose mounts declarative components into node trees.

Components are loaded from a directory, an HTTP origin or an S3
bucket, rendered to HTML, and kept live over WebSocket.

  • One-shot rendering from the command line
  • HTTP rendering and live sessions
  • Prometheus metrics and OpenTelemetry tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing compose.json")

	rootCmd.AddCommand(
		initCmd(),
		renderCmd(&configDir),
		serveCmd(&configDir),
		listCmd(&configDir),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var ce *cerrors.ComposeError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, cerrors.Format(err))
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

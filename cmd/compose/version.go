package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// stackModules are the dependencies reported by "compose version". They
// decide how components are fetched, served and observed.
var stackModules = []string{
	"github.com/aws/aws-sdk-go-v2/service/s3",
	"github.com/fsnotify/fsnotify",
	"github.com/go-chi/chi/v5",
	"github.com/gorilla/websocket",
	"github.com/prometheus/client_golang",
	"go.opentelemetry.io/otel",
	"golang.org/x/net",
}

type buildInfo struct {
	Version  string            `json:"version"`
	Commit   string            `json:"commit"`
	Built    string            `json:"built"`
	Go       string            `json:"go"`
	Platform string            `json:"platform"`
	Modules  map[string]string `json:"modules,omitempty"`
}

// currentBuild reports the ldflags values, falling back to the module
// version and VCS stamp embedded by the go tool.
func currentBuild() buildInfo {
	info := buildInfo{
		Version:  version,
		Commit:   commit,
		Built:    date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Built == "unknown":
			info.Built = s.Value
		}
	}
	for _, dep := range bi.Deps {
		for _, path := range stackModules {
			if dep.Path == path {
				if info.Modules == nil {
					info.Modules = make(map[string]string)
				}
				info.Modules[path] = dep.Version
			}
		}
	}
	return info
}

func (b buildInfo) print(w io.Writer) {
	fmt.Fprint(w, banner)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Version:    %s\n", b.Version)
	fmt.Fprintf(w, "  Commit:     %s\n", b.Commit)
	fmt.Fprintf(w, "  Built:      %s\n", b.Built)
	fmt.Fprintf(w, "  Go version: %s\n", b.Go)
	fmt.Fprintf(w, "  OS/Arch:    %s\n", b.Platform)
	if len(b.Modules) > 0 {
		paths := make([]string, 0, len(b.Modules))
		for p := range b.Modules {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Stack:")
		for _, p := range paths {
			fmt.Fprintf(w, "    %-42s %s\n", strings.TrimPrefix(p, "github.com/"), b.Modules[p])
		}
	}
	fmt.Fprintln(w)
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the compose version, its build stamp, and the versions of the
libraries it loads, serves and traces components with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentBuild()
			out := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(out, info.Version)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				info.print(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}

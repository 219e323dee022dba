package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the dvmeta CLI. The logger level follows --verbose and
// the logger is attached to the command context for all subcommands.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "dvmeta",
		Short:        "dvmeta crawls Dataverse repositories for dataset metadata",
		Long:         `dvmeta walks a Dataverse collection hierarchy, collects dataset representation, file, and permission metadata with bounded concurrency, and exports the results as JSON, CSV, and a crawl report.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("dvmeta %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCrawlCmd())

	return root.ExecuteContext(ctx)
}

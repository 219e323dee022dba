package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/openrdm/dvmeta/pkg/config"
	"github.com/openrdm/dvmeta/pkg/crawl"
	"github.com/openrdm/dvmeta/pkg/dataverse"
	"github.com/openrdm/dvmeta/pkg/errors"
	"github.com/openrdm/dvmeta/pkg/export"
	"github.com/openrdm/dvmeta/pkg/render"
)

// crawlFlags carries command-line state for the crawl command. Flag
// values override config file and environment values.
type crawlFlags struct {
	configPath      string
	baseURL         string
	token           string
	collectionAlias string
	datasetVersion  string
	maxInFlight     int

	metadata    bool
	permission  bool
	emptyDV     bool
	failed      bool
	spreadsheet bool
	treeSVG     bool
	writeLog    bool
}

func newCrawlCmd() *cobra.Command {
	flags := &crawlFlags{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a collection subtree and export its metadata",
		Long: `Crawl walks the collection hierarchy under --collection-alias, lists
every collection's contents, and optionally fetches dataset representation,
file, and permission metadata. Results are written to the export directory
as timestamped JSON files with SHA-256 checksums, plus an optional CSV
spreadsheet, an SVG rendering of the hierarchy, and a markdown run log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Dataverse repository base URL")
	cmd.Flags().StringVarP(&flags.token, "auth", "a", "", "API token (or DVMETA_API_TOKEN)")
	cmd.Flags().StringVar(&flags.collectionAlias, "collection-alias", "", "alias of the collection to crawl")
	cmd.Flags().StringVar(&flags.datasetVersion, "dataset-version", "", "dataset version to fetch (draft, latest, latest-published, x or x.y)")
	cmd.Flags().IntVar(&flags.maxInFlight, "max-in-flight", 0, "maximum simultaneous HTTP requests")

	cmd.Flags().BoolVarP(&flags.metadata, "metadata", "d", false, "fetch dataset representation and file metadata")
	cmd.Flags().BoolVarP(&flags.permission, "permission", "p", false, "fetch dataset permission metadata (requires --auth)")
	cmd.Flags().BoolVarP(&flags.emptyDV, "empty-dv", "e", false, "export the list of collections holding no datasets")
	cmd.Flags().BoolVarP(&flags.failed, "failed", "f", false, "export URLs of failed metadata requests")
	cmd.Flags().BoolVarP(&flags.spreadsheet, "spreadsheet", "s", false, "export the dataset metadata CSV")
	cmd.Flags().BoolVar(&flags.treeSVG, "tree-svg", false, "render the collection hierarchy as SVG")
	cmd.Flags().BoolVarP(&flags.writeLog, "log", "l", true, "write the markdown run log")

	return cmd
}

func runCrawl(ctx context.Context, flags *crawlFlags) error {
	logger := loggerFromContext(ctx)
	start := time.Now()
	prog := newProgress(logger)

	cfg, err := flags.effectiveConfig()
	if err != nil {
		return err
	}

	if flags.spreadsheet && !flags.metadata {
		return errors.New(errors.ErrCodeInvalidInput, "--spreadsheet requires --metadata")
	}
	if flags.permission && cfg.APIToken == "" {
		return errors.New(errors.ErrCodeMissingToken, "--permission requires an API token (--auth or DVMETA_API_TOKEN)")
	}

	client := dataverse.NewClient(cfg.APIToken, cfg.MaxInFlight)
	if cfg.TimeoutSeconds > 0 {
		client = client.WithTimeout(cfg.Timeout())
	}
	urls := dataverse.NewURLs(cfg.BaseURL)

	client, permissions, err := checkConnection(ctx, client, urls, flags.permission)
	if err != nil {
		return err
	}

	fetcher := crawl.NewFetcher(client, urls, logger)
	crawler, err := crawl.NewCrawler(fetcher, crawl.Options{
		CollectionAlias: cfg.CollectionAlias,
		Version:         cfg.Version,
		Metadata:        flags.metadata,
		Permissions:     permissions,
	}, logger)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("crawling %s at %s", cfg.CollectionAlias, cfg.BaseURL))
	spinner.Start()
	res, err := crawler.Run(ctx)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		printError("crawl failed: %s", errors.UserMessage(err))
		return err
	}
	res.Authenticated = client.Authenticated()

	manager := export.NewManager(cfg.ExportDir, logger)
	if err := writeArtifacts(ctx, manager, urls, res, flags); err != nil {
		return err
	}

	if flags.writeLog {
		path, err := export.WriteReport(manager, export.ReportData{
			BaseURL:         cfg.BaseURL,
			CollectionAlias: cfg.CollectionAlias,
			Version:         cfg.Version,
			Authenticated:   res.Authenticated,
			Start:           start,
			End:             time.Now(),
			Elapsed:         time.Since(start),
			Result:          res,
		})
		if err != nil {
			return err
		}
		printFile(path)
	}

	printSummary(res, manager)
	prog.done("crawl complete")
	return nil
}

// effectiveConfig merges config file, environment, and flag overrides.
func (f *crawlFlags) effectiveConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.token != "" {
		cfg.APIToken = f.token
	}
	if f.collectionAlias != "" {
		cfg.CollectionAlias = f.collectionAlias
	}
	if f.datasetVersion != "" {
		cfg.Version = f.datasetVersion
	}
	if f.maxInFlight > 0 {
		cfg.MaxInFlight = f.maxInFlight
	}
	return cfg, cfg.Validate()
}

// checkConnection probes the repository before crawling. An unreachable
// repository aborts; an invalid token downgrades the run to
// unauthenticated crawling with permission collection disabled.
func checkConnection(ctx context.Context, client *dataverse.Client, urls dataverse.URLs, permissions bool) (*dataverse.Client, bool, error) {
	probe := client.Probe(ctx, urls)
	if !probe.Reachable {
		return nil, false, errors.New(errors.ErrCodeNetwork, "repository at %s is not reachable", urls.Version())
	}
	if client.Authenticated() && !probe.Authenticated {
		printWarning("API token rejected, continuing unauthenticated")
		if permissions {
			printWarning("permission metadata will not be collected")
		}
		return client.Unauthenticated(), false, nil
	}
	return client, permissions, nil
}

// writeArtifacts exports every requested artifact and tracks them in
// the manager's manifest.
func writeArtifacts(ctx context.Context, m *export.Manager, urls dataverse.URLs, res *crawl.Result, flags *crawlFlags) error {
	if err := m.ExportJSON(refsByPID(res.Refs), export.TypePIDs); err != nil {
		return err
	}
	if flags.metadata {
		if err := m.ExportJSON(res.Metadata, export.TypeMetadata); err != nil {
			return err
		}
		if err := m.ExportJSON(refsByPID(res.Deaccessioned), export.TypeDeaccessioned); err != nil {
			return err
		}
	}
	if flags.failed {
		if err := m.ExportJSON(res.FailedMeta, export.TypeFailedURIs); err != nil {
			return err
		}
	}
	if flags.permission {
		if err := m.ExportJSON(res.Permissions, export.TypePermissions); err != nil {
			return err
		}
	}
	if flags.emptyDV {
		if err := m.ExportJSON(res.EmptyCollections, export.TypeEmptyDV); err != nil {
			return err
		}
	}
	if flags.spreadsheet && len(res.Metadata) > 0 {
		path, err := export.NewSpreadsheet(urls).WriteCSV(m, res.Metadata)
		if err != nil {
			return err
		}
		printFile(path)
	}
	if flags.treeSVG {
		if err := writeTreeSVG(ctx, m, res); err != nil {
			return err
		}
	}
	return nil
}

func writeTreeSVG(ctx context.Context, m *export.Manager, res *crawl.Result) error {
	svg, err := render.RenderSVG(ctx, render.TreeToDOT(res, render.Options{Detailed: true}))
	if err != nil {
		return err
	}

	dir, err := m.EnsureSubdir("svg_files")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("collection_tree_%s.svg", m.Stamp()))
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}

	checksum, err := export.Checksum(path)
	if err != nil {
		return err
	}
	m.TrackFile("collection_tree", path, checksum)
	printFile(path)
	return nil
}

// refsByPID re-keys refs by persistent identifier for export, the form
// consumers of the PID artifacts expect.
func refsByPID(refs map[int]crawl.DatasetRef) map[string]crawl.DatasetRef {
	out := make(map[string]crawl.DatasetRef, len(refs))
	for _, ref := range refs {
		out[ref.PersistentID] = ref
	}
	return out
}

func printSummary(res *crawl.Result, m *export.Manager) {
	printNewline()
	printSuccess("crawled %s", res.RootAlias)
	printKeyValue("run ID", m.RunID().String())
	printKeyValue("collections", strconv.Itoa(len(res.Flat)+1))
	printKeyValue("datasets discovered", strconv.Itoa(res.DatasetCount()))
	if res.Metadata != nil {
		printKeyValue("datasets crawled", strconv.Itoa(len(res.Metadata)))
		printKeyValue("deaccessioned/draft", strconv.Itoa(len(res.Deaccessioned)))
	}
	printKeyValue("empty collections", strconv.Itoa(len(res.EmptyCollections)))
	failures := len(res.FailedContents) + len(res.FailedMeta) + len(res.FailedPermissions)
	if failures > 0 {
		printWarning("%d requests failed, see the run log", failures)
	}
}

package crawl

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/openrdm/dvmeta/pkg/dataverse"
	"github.com/openrdm/dvmeta/pkg/errors"
)

// Options selects which stages a crawl runs. The tree and contents
// stages always run; representation metadata and permissions are opt-in.
type Options struct {
	CollectionAlias string
	Version         string
	Metadata        bool
	Permissions     bool
}

// Result is the complete outcome of one crawl: the collected data plus
// the partial-failure accounting for every stage. A crawl that reached
// the export phase always produces a Result, even when individual
// requests failed.
type Result struct {
	Tree *dataverse.TreeResponse
	Flat map[int]FlatCollection

	RootID    int
	RootAlias string

	Refs             map[int]DatasetRef
	EmptyCollections []int
	FailedContents   map[int]ContentsFailure

	Metadata      map[string]*DatasetMetadata
	Deaccessioned map[int]DatasetRef
	FailedMeta    FailureSet

	Permissions       map[int]dataverse.PermissionInfo
	FailedPermissions FailureSet

	Authenticated bool
}

// DatasetCount returns the number of datasets discovered in the
// hierarchy, independent of how many metadata fetches succeeded.
func (r *Result) DatasetCount() int { return len(r.Refs) }

// Crawler walks a Dataverse collection hierarchy stage by stage:
// tree, contents, then optionally dataset metadata and permissions.
type Crawler struct {
	fetcher *Fetcher
	opts    Options
	logger  *log.Logger
}

// NewCrawler creates a Crawler. Version defaults to the latest published
// version when left empty.
func NewCrawler(fetcher *Fetcher, opts Options, logger *log.Logger) (*Crawler, error) {
	if opts.CollectionAlias == "" {
		return nil, errors.New(errors.ErrCodeInvalidCollection, "collection alias must not be empty")
	}
	if opts.Version == "" {
		opts.Version = "latest-published"
	}
	if err := dataverse.ValidateVersion(opts.Version); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Crawler{fetcher: fetcher, opts: opts, logger: logger}, nil
}

// Run executes the crawl. Only an unusable collection tree aborts the
// run; every later stage degrades to partial results with the failures
// recorded on the Result.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	tree, err := c.fetcher.FetchTree(ctx, c.opts.CollectionAlias)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Tree:      tree,
		Flat:      Flatten(tree),
		RootID:    tree.Data.ID,
		RootAlias: tree.Data.Alias,
	}
	c.logger.Info("collection tree fetched",
		"root", res.RootAlias, "collections", len(res.Flat))

	ids := CollectionIDs(res.Flat, res.RootID)
	contents, failedContents := c.fetcher.FetchContents(ctx, ids)
	res.FailedContents = failedContents
	res.Refs, res.EmptyCollections = ExtractRefs(contents, res.Flat, res.RootAlias, res.RootID)
	c.logger.Info("collection contents fetched",
		"datasets", len(res.Refs),
		"empty", len(res.EmptyCollections),
		"failed", len(failedContents))

	if c.opts.Metadata {
		if err := c.crawlMetadata(ctx, res); err != nil {
			return nil, err
		}
	}

	if c.opts.Permissions {
		c.crawlPermissions(ctx, res)
	}

	// Every merged record carries permission info, fetched or not: the
	// NA sentinel marks "not collected" for records the permission stage
	// never covered.
	if res.Metadata != nil {
		AttachPermissionInfo(res.Metadata, res.Permissions)
	}

	return res, nil
}

func (c *Crawler) crawlMetadata(ctx context.Context, res *Result) error {
	byPID, failed := c.fetcher.FetchDatasetMeta(ctx, c.opts.Version, PersistentIDs(res.Refs))
	res.Metadata = RekeyByDatasetID(byPID)
	res.Deaccessioned = AttachPathInfo(res.Metadata, res.Refs)
	res.FailedMeta = ReconcileFailures(failed, res.Deaccessioned)
	c.logger.Info("dataset metadata fetched",
		"merged", len(res.Metadata),
		"deaccessioned", len(res.Deaccessioned),
		"failed", len(res.FailedMeta))
	return ctx.Err()
}

func (c *Crawler) crawlPermissions(ctx context.Context, res *Result) {
	perms, failed := c.fetcher.FetchPermissions(ctx, DatasetIDs(res.Refs))
	res.Permissions = perms
	res.FailedPermissions = failed
	c.logger.Info("permissions fetched",
		"granted", len(perms), "failed", len(failed))
}

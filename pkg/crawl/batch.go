package crawl

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/openrdm/dvmeta/pkg/dataverse"
	"github.com/openrdm/dvmeta/pkg/errors"
)

// ContentsFailure records one failed collection contents fetch.
type ContentsFailure struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
}

// FailureSet maps request URLs to HTTP status codes for failed dataset
// metadata and permission fetches. Status 0 means the request never got
// an HTTP response (transport-level failure).
type FailureSet map[string]int

// Fetcher runs the fan-out batch fetches of one crawl. Every batch is
// scheduled as one cooperative stage: all requests are issued together
// and the stage completes only when each has resolved. The number of
// simultaneously in-flight requests is bounded by the client's shared
// gate, never per batch.
type Fetcher struct {
	client *dataverse.Client
	urls   dataverse.URLs
	logger *log.Logger
}

// NewFetcher creates a Fetcher over the given client and URL builder.
func NewFetcher(client *dataverse.Client, urls dataverse.URLs, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{client: client, urls: urls, logger: logger}
}

// FetchTree retrieves the collection hierarchy scoped to the configured
// alias. An unreachable endpoint or a response without a root collection
// is fatal: no hierarchy means no crawl is possible, and in practice it
// signals an unknown collection alias.
func (f *Fetcher) FetchTree(ctx context.Context, parentAlias string) (*dataverse.TreeResponse, error) {
	var tree dataverse.TreeResponse
	if err := f.client.GetJSON(ctx, f.urls.Tree(parentAlias), &tree); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmptyTree, err,
			"could not fetch collection tree for %q", parentAlias)
	}
	if tree.Data.ID == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTree,
			"collection tree for %q is empty: unknown alias?", parentAlias)
	}
	return &tree, nil
}

// FetchContents retrieves the contents listing of every collection in
// ids. Success requires HTTP 200 and a non-empty JSON body; anything else
// is recorded in the failure map keyed by collection ID. Results are
// associated with their collection positionally.
func (f *Fetcher) FetchContents(ctx context.Context, ids []int) (map[int]dataverse.ContentsResponse, map[int]ContentsFailure) {
	results := f.fanOut(ctx, len(ids), func(i int) string {
		return f.urls.Contents(ids[i])
	})

	contents := make(map[int]dataverse.ContentsResponse)
	failed := make(map[int]ContentsFailure)

	for i, res := range results {
		id := ids[i]
		var parsed dataverse.ContentsResponse
		if res.OK() && json.Unmarshal(res.Body, &parsed) == nil {
			contents[id] = parsed
			continue
		}
		failed[id] = ContentsFailure{URL: res.URL, StatusCode: res.StatusCode}
		f.logger.Debug("contents fetch failed", "collection", id, "status", res.StatusCode)
	}

	return contents, failed
}

// FetchDatasetMeta retrieves representation/file metadata for every
// persistent identifier against the version-qualified endpoint. Successes
// are keyed by the persistent ID echoed in the response body (not the
// request input); failures are keyed by request URL. Failures here are
// later reconciled against the deaccessioned/draft set, since a dataset
// without a matching version legitimately 404s.
func (f *Fetcher) FetchDatasetMeta(ctx context.Context, version string, pids []string) (map[string]*DatasetMetadata, FailureSet) {
	results := f.fanOut(ctx, len(pids), func(i int) string {
		return f.urls.DatasetVersion(version, pids[i])
	})

	meta := make(map[string]*DatasetMetadata)
	failed := make(FailureSet)

	for _, res := range results {
		var parsed dataverse.DatasetVersionResponse
		if res.OK() && json.Unmarshal(res.Body, &parsed) == nil && parsed.Data.DatasetPersistentID != "" {
			meta[parsed.Data.DatasetPersistentID] = &DatasetMetadata{Data: parsed.Data}
			continue
		}
		failed[res.URL] = res.StatusCode
		f.logger.Debug("dataset metadata fetch failed", "url", res.URL, "status", res.StatusCode)
	}

	return meta, failed
}

// FetchPermissions retrieves role assignments for every dataset ID.
// Responses complete out of submission order, so association runs through
// the echoed request URL rather than list position. Callers must have
// verified credential presence beforehand; this layer does not detect a
// missing token.
func (f *Fetcher) FetchPermissions(ctx context.Context, ids []int) (map[int]dataverse.PermissionInfo, FailureSet) {
	urlToID := make(map[string]int, len(ids))
	for _, id := range ids {
		urlToID[f.urls.Assignments(id)] = id
	}

	results := f.fanOut(ctx, len(ids), func(i int) string {
		return f.urls.Assignments(ids[i])
	})

	perms := make(map[int]dataverse.PermissionInfo)
	failed := make(FailureSet)

	for _, res := range results {
		id, known := urlToID[res.URL]
		var parsed dataverse.AssignmentsResponse
		if known && res.OK() && json.Unmarshal(res.Body, &parsed) == nil {
			perms[id] = dataverse.PermissionInfo{Status: parsed.Status, Data: parsed.Data}
			continue
		}
		failed[res.URL] = res.StatusCode
		f.logger.Debug("permission fetch failed", "url", res.URL, "status", res.StatusCode)
	}

	return perms, failed
}

// fanOut issues n requests concurrently and returns their results in
// submission order. Each request resolves to a Result even on failure, so
// a stage always completes fully — no early exit, no partial results.
func (f *Fetcher) fanOut(ctx context.Context, n int, url func(i int) string) []dataverse.Result {
	results := make([]dataverse.Result, n)

	g := new(errgroup.Group)
	for i := range n {
		g.Go(func() error {
			results[i] = f.client.Fetch(ctx, url(i))
			return nil
		})
	}
	// Workers never return errors; failures live in the result slice.
	_ = g.Wait()

	return results
}

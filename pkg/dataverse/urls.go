package dataverse

import (
	"fmt"
	"net/url"
	"strings"
)

// URLs builds the Dataverse API endpoints used by the crawler. All
// methods return absolute URLs rooted at the configured base URL.
type URLs struct {
	base string
}

// NewURLs creates a URL builder for the given repository base URL.
// A trailing slash on base is ignored.
func NewURLs(base string) URLs {
	return URLs{base: strings.TrimRight(base, "/")}
}

// Tree returns the collection hierarchy endpoint, optionally scoped to a
// parent collection alias.
func (u URLs) Tree(parentAlias string) string {
	if parentAlias == "" {
		return u.base + "/api/info/metrics/tree"
	}
	return u.base + "/api/info/metrics/tree?parentAlias=" + url.QueryEscape(parentAlias)
}

// Contents returns the contents listing endpoint for one collection.
func (u URLs) Contents(collectionID int) string {
	return fmt.Sprintf("%s/api/dataverses/%d/contents", u.base, collectionID)
}

// DatasetVersion returns the version-qualified dataset metadata endpoint
// for a persistent identifier. The endpoint keeps Dataverse's literal ":"
// placeholders in the path and carries the PID as a query parameter.
func (u URLs) DatasetVersion(version, persistentID string) string {
	return fmt.Sprintf("%s/api/datasets/:persistentId/versions/:%s?persistentId=%s",
		u.base, version, url.QueryEscape(persistentID))
}

// Assignments returns the role assignments endpoint for a dataset.
func (u URLs) Assignments(datasetID int) string {
	return fmt.Sprintf("%s/api/datasets/%d/assignments", u.base, datasetID)
}

// Version returns the unauthenticated liveness probe endpoint.
func (u URLs) Version() string {
	return u.base + "/api/info/version"
}

// MyData returns the authenticated liveness probe endpoint. The query is
// the cheapest role-scoped request the API offers: one published
// Dataverse object for the admin role.
func (u URLs) MyData() string {
	return u.base + "/api/mydata/retrieve?role_ids=8&dvobject_types=Dataverse&published_states=Published&per_page=1"
}

// DatasetPage returns the human-facing landing page of a dataset,
// used for the spreadsheet's DatasetURL column.
func (u URLs) DatasetPage(persistentID string) string {
	return u.base + "/dataset.xhtml?persistentId=" + persistentID
}

package crawl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/openrdm/dvmeta/pkg/dataverse"
)

// DatasetMetadata is one merged dataset record: the version metadata as
// fetched, progressively enriched with hierarchy placement and permission
// data as the crawl stages complete.
type DatasetMetadata struct {
	Data           dataverse.DatasetVersion  `json:"data"`
	PathInfo       *DatasetRef               `json:"path_info,omitempty"`
	PermissionInfo *dataverse.PermissionInfo `json:"permission_info,omitempty"`
}

// RekeyByDatasetID re-keys merged records from persistent ID to the
// decimal form of the numeric dataset ID, the join key shared with the
// permission stage. Records whose body carries no numeric ID keep their
// persistent ID as key rather than being dropped.
func RekeyByDatasetID(byPID map[string]*DatasetMetadata) map[string]*DatasetMetadata {
	byID := make(map[string]*DatasetMetadata, len(byPID))
	for pid, meta := range byPID {
		key := pid
		if meta.Data.DatasetID != 0 {
			key = strconv.Itoa(meta.Data.DatasetID)
		}
		byID[key] = meta
	}
	return byID
}

// AttachPathInfo joins hierarchy placement onto merged records. Both
// sides key by numeric dataset ID; refs that find no merged record are
// returned as leftovers. A leftover means the tree listed the dataset but
// the version fetch produced nothing for it, which is the signature of a
// deaccessioned or draft-only dataset under a published-version crawl.
func AttachPathInfo(merged map[string]*DatasetMetadata, refs map[int]DatasetRef) map[int]DatasetRef {
	pending := make(map[int]DatasetRef, len(refs))
	for id, ref := range refs {
		pending[id] = ref
	}

	for _, meta := range merged {
		if meta.Data.DatasetID == 0 {
			continue
		}
		if ref, ok := pending[meta.Data.DatasetID]; ok {
			r := ref
			meta.PathInfo = &r
			delete(pending, meta.Data.DatasetID)
		}
	}

	return pending
}

// AttachPermissionInfo joins permission data onto merged records. Every
// record ends up with permission info: fetched assignments where the
// permission stage produced them, the NA sentinel everywhere else, so
// consumers can always distinguish "not collected" from "no assignments".
func AttachPermissionInfo(merged map[string]*DatasetMetadata, perms map[int]dataverse.PermissionInfo) {
	for _, meta := range merged {
		if p, ok := perms[meta.Data.DatasetID]; ok && meta.Data.DatasetID != 0 {
			info := p
			meta.PermissionInfo = &info
			continue
		}
		na := dataverse.PermissionNA()
		meta.PermissionInfo = &na
	}
}

// ReconcileFailures removes from the failure set every URL that refers to
// a dataset known to be deaccessioned or draft-only. Those 404s are the
// expected outcome of asking a published-version endpoint about an
// unpublished dataset, not crawl errors, and reporting them as failures
// would overstate the error count.
func ReconcileFailures(failed FailureSet, deaccessioned map[int]DatasetRef) FailureSet {
	if len(deaccessioned) == 0 {
		return failed
	}

	kept := make(FailureSet, len(failed))
	for url, status := range failed {
		if !matchesAnyPID(url, deaccessioned) {
			kept[url] = status
		}
	}
	return kept
}

// matchesAnyPID checks the URL against both the raw and the
// query-escaped form of each persistent ID, since request URLs carry
// the PID percent-encoded.
func matchesAnyPID(rawURL string, refs map[int]DatasetRef) bool {
	for _, ref := range refs {
		if ref.PersistentID == "" {
			continue
		}
		if strings.Contains(rawURL, ref.PersistentID) ||
			strings.Contains(rawURL, url.QueryEscape(ref.PersistentID)) {
			return true
		}
	}
	return false
}

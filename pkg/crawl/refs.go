package crawl

import (
	"github.com/openrdm/dvmeta/pkg/dataverse"
)

// DatasetRef locates one discovered dataset in the hierarchy. Refs are
// created during contents extraction keyed by numeric dataset ID, and
// consumed (popped) during the path join — whatever remains afterward is
// exactly the deaccessioned/draft set.
//
// Path carries a leading slash ("/C1/C2"); it is nil for datasets living
// directly in the root collection.
type DatasetRef struct {
	CollectionAlias string  `json:"CollectionAlias"`
	CollectionID    int     `json:"CollectionID"`
	PersistentID    string  `json:"datasetPersistentId"`
	DatasetID       int     `json:"datasetId"`
	Path            *string `json:"path"`
	PathIDs         []int   `json:"pathIds"`
}

// ExtractRefs selects the dataset-typed entries of every fetched
// collection's contents and projects them into DatasetRefs, attaching the
// hierarchy position from the flattened index. The persistent identifier
// is assembled as protocol:authority/identifier.
//
// Collections contributing zero dataset entries are returned in empty —
// a content property checked after fetch success, independent of the
// failure accounting.
func ExtractRefs(
	contents map[int]dataverse.ContentsResponse,
	flat map[int]FlatCollection,
	rootAlias string,
	rootID int,
) (refs map[int]DatasetRef, empty []int) {
	refs = make(map[int]DatasetRef)

	for collectionID, resp := range contents {
		found := 0
		for _, item := range resp.Data {
			if item.Type != "dataset" {
				continue
			}
			found++

			ref := DatasetRef{
				CollectionAlias: rootAlias,
				CollectionID:    rootID,
				PersistentID:    item.Protocol + ":" + item.Authority + "/" + item.Identifier,
				DatasetID:       item.ID,
			}
			// Datasets in the root collection have no flattened entry and
			// keep a nil path.
			if fc, ok := flat[collectionID]; ok {
				p := "/" + fc.Path
				ref.Path = &p
				ref.PathIDs = fc.PathIDs
			}
			refs[item.ID] = ref
		}
		if found == 0 {
			empty = append(empty, collectionID)
		}
	}

	return refs, empty
}

// PersistentIDs lists the persistent identifiers of all refs, the input
// to the dataset metadata batch.
func PersistentIDs(refs map[int]DatasetRef) []string {
	pids := make([]string, 0, len(refs))
	for _, ref := range refs {
		pids = append(pids, ref.PersistentID)
	}
	return pids
}

// DatasetIDs lists the numeric dataset IDs of all refs, the input to the
// permission batch.
func DatasetIDs(refs map[int]DatasetRef) []int {
	ids := make([]int, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	return ids
}

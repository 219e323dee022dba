// Package crawl implements the crawl-and-merge pipeline: flattening the
// collection hierarchy into a path index, fan-out batch fetching with
// partial-failure accounting, and the multi-stage join that reconciles
// hierarchy position, representation metadata, and permission metadata
// into one record per dataset.
package crawl

import (
	"github.com/openrdm/dvmeta/pkg/dataverse"
)

// FlatCollection is one entry of the flattened hierarchy index, keyed by
// collection ID. Path is the slash-joined chain of ancestor names with no
// leading slash; PathIDs is the matching ID chain including the
// collection itself, so len(PathIDs) equals the depth below the root.
type FlatCollection struct {
	ID      int    `json:"id"`
	OwnerID int    `json:"ownerId,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Name    string `json:"name"`
	Depth   int    `json:"depth,omitempty"`
	Path    string `json:"path"`
	PathIDs []int  `json:"pathIds"`
}

// Flatten converts a collection tree into a flat mapping from every
// descendant collection ID to its path index entry. The root itself is
// excluded: it is crawled separately under its own configured ID. A tree
// whose root has no children yields an empty, non-nil mapping.
//
// Traversal is depth-first pre-order, but callers must treat the result
// as a keyed mapping, never as an ordered sequence.
func Flatten(tree *dataverse.TreeResponse) map[int]FlatCollection {
	out := make(map[int]FlatCollection)
	if tree == nil {
		return out
	}
	flattenInto(out, tree.Data.Children, "", nil)
	return out
}

func flattenInto(out map[int]FlatCollection, nodes []dataverse.CollectionNode, parentPath string, parentIDs []int) {
	for _, n := range nodes {
		// Fresh slice per node: appending to the parent's slice would
		// alias state across siblings.
		ids := make([]int, len(parentIDs), len(parentIDs)+1)
		copy(ids, parentIDs)
		ids = append(ids, n.ID)

		path := n.Name
		if parentPath != "" {
			path = parentPath + "/" + n.Name
		}

		out[n.ID] = FlatCollection{
			ID:      n.ID,
			OwnerID: n.OwnerID,
			Alias:   n.Alias,
			Name:    n.Name,
			Depth:   n.Depth,
			Path:    path,
			PathIDs: ids,
		}

		if len(n.Children) > 0 {
			flattenInto(out, n.Children, path, ids)
		}
	}
}

// CollectionIDs returns the full list of collection IDs to crawl: every
// flattened descendant plus the root collection itself.
func CollectionIDs(flat map[int]FlatCollection, rootID int) []int {
	ids := make([]int, 0, len(flat)+1)
	for id := range flat {
		ids = append(ids, id)
	}
	ids = append(ids, rootID)
	return ids
}

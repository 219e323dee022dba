package crawl

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/openrdm/dvmeta/pkg/dataverse"
)

func sampleTree() *dataverse.TreeResponse {
	return &dataverse.TreeResponse{
		Status: "OK",
		Data: dataverse.CollectionNode{
			ID: 1, Alias: "root", Name: "Root",
			Children: []dataverse.CollectionNode{
				{ID: 2, OwnerID: 1, Alias: "c1", Name: "C1", Depth: 1,
					Children: []dataverse.CollectionNode{
						{ID: 4, OwnerID: 2, Alias: "c3", Name: "C3", Depth: 2},
						{ID: 5, OwnerID: 2, Alias: "c4", Name: "C4", Depth: 2},
					}},
				{ID: 3, OwnerID: 1, Alias: "c2", Name: "C2", Depth: 1},
			},
		},
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(sampleTree())

	if len(flat) != 4 {
		t.Fatalf("expected 4 flattened collections, got %d", len(flat))
	}
	if _, ok := flat[1]; ok {
		t.Error("root must not appear in the flattened index")
	}

	tests := []struct {
		id      int
		path    string
		pathIDs []int
	}{
		{2, "C1", []int{2}},
		{3, "C2", []int{3}},
		{4, "C1/C3", []int{2, 4}},
		{5, "C1/C4", []int{2, 5}},
	}
	for _, tt := range tests {
		fc, ok := flat[tt.id]
		if !ok {
			t.Errorf("collection %d missing from index", tt.id)
			continue
		}
		if fc.Path != tt.path {
			t.Errorf("collection %d: path = %q, want %q", tt.id, fc.Path, tt.path)
		}
		if !reflect.DeepEqual(fc.PathIDs, tt.pathIDs) {
			t.Errorf("collection %d: pathIds = %v, want %v", tt.id, fc.PathIDs, tt.pathIDs)
		}
	}
}

func TestFlattenAncestorPrefix(t *testing.T) {
	flat := Flatten(sampleTree())

	// Every non-final entry of a pathIds chain names an ancestor whose own
	// path must be a proper prefix.
	for id, fc := range flat {
		for _, ancestorID := range fc.PathIDs[:len(fc.PathIDs)-1] {
			ancestor, ok := flat[ancestorID]
			if !ok {
				t.Fatalf("collection %d references unknown ancestor %d", id, ancestorID)
			}
			if !strings.HasPrefix(fc.Path, ancestor.Path+"/") {
				t.Errorf("collection %d: path %q not under ancestor path %q", id, fc.Path, ancestor.Path)
			}
		}
	}
}

func TestFlattenSiblingIsolation(t *testing.T) {
	flat := Flatten(sampleTree())

	// Sibling pathIds must not share backing arrays.
	flat[4].PathIDs[0] = 99
	if flat[5].PathIDs[0] == 99 {
		t.Error("sibling pathIds alias the same backing array")
	}
}

func TestFlattenEmptyAndNil(t *testing.T) {
	empty := &dataverse.TreeResponse{Data: dataverse.CollectionNode{ID: 1, Alias: "root"}}
	if flat := Flatten(empty); flat == nil || len(flat) != 0 {
		t.Errorf("childless root: got %v, want empty non-nil map", flat)
	}
	if flat := Flatten(nil); flat == nil || len(flat) != 0 {
		t.Errorf("nil tree: got %v, want empty non-nil map", flat)
	}
}

func TestCollectionIDs(t *testing.T) {
	flat := Flatten(sampleTree())
	ids := CollectionIDs(flat, 1)
	sort.Ints(ids)
	want := []int{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("CollectionIDs = %v, want %v", ids, want)
	}
}

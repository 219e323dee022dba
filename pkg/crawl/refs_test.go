package crawl

import (
	"testing"

	"github.com/openrdm/dvmeta/pkg/dataverse"
)

func sampleContents() map[int]dataverse.ContentsResponse {
	return map[int]dataverse.ContentsResponse{
		1: {Status: "OK", Data: []dataverse.ContentItem{
			{ID: 2, Type: "dataverse", Title: "C1"},
			{ID: 40, Type: "dataset", Protocol: "doi", Authority: "10.5072", Identifier: "ROOT1"},
		}},
		2: {Status: "OK", Data: []dataverse.ContentItem{
			{ID: 42, Type: "dataset", Protocol: "doi", Authority: "10.5072", Identifier: "ABC"},
		}},
		3: {Status: "OK", Data: []dataverse.ContentItem{
			{ID: 4, Type: "dataverse", Title: "C3"},
		}},
	}
}

func TestExtractRefs(t *testing.T) {
	flat := Flatten(sampleTree())
	refs, empty := ExtractRefs(sampleContents(), flat, "root", 1)

	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}

	ref, ok := refs[42]
	if !ok {
		t.Fatal("dataset 42 missing")
	}
	if ref.PersistentID != "doi:10.5072/ABC" {
		t.Errorf("pid = %q, want doi:10.5072/ABC", ref.PersistentID)
	}
	if ref.Path == nil || *ref.Path != "/C1" {
		t.Errorf("path = %v, want /C1", ref.Path)
	}
	if ref.CollectionAlias != "root" || ref.CollectionID != 1 {
		t.Errorf("crawl scope = %q/%d, want root/1", ref.CollectionAlias, ref.CollectionID)
	}

	// Datasets living directly in the root collection carry no path.
	if root, ok := refs[40]; !ok || root.Path != nil {
		t.Errorf("root dataset: ok=%v path=%v, want present with nil path", ok, root.Path)
	}

	if len(empty) != 1 || empty[0] != 3 {
		t.Errorf("empty collections = %v, want [3]", empty)
	}
}

func TestExtractRefsSubDataverseNotEmpty(t *testing.T) {
	// A collection holding only sub-dataverses counts as empty of
	// datasets; one holding a dataset does not, whatever else it holds.
	flat := Flatten(sampleTree())
	refs, empty := ExtractRefs(map[int]dataverse.ContentsResponse{
		1: {Data: []dataverse.ContentItem{{ID: 2, Type: "dataverse"}}},
	}, flat, "root", 1)

	if len(refs) != 0 {
		t.Errorf("expected no refs, got %d", len(refs))
	}
	if len(empty) != 1 || empty[0] != 1 {
		t.Errorf("empty = %v, want [1]", empty)
	}
}

func TestPersistentIDsAndDatasetIDs(t *testing.T) {
	flat := Flatten(sampleTree())
	refs, _ := ExtractRefs(sampleContents(), flat, "root", 1)

	pids := PersistentIDs(refs)
	ids := DatasetIDs(refs)
	if len(pids) != 2 || len(ids) != 2 {
		t.Fatalf("got %d pids / %d ids, want 2 each", len(pids), len(ids))
	}
	seen := map[int]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[40] || !seen[42] {
		t.Errorf("ids = %v, want {40, 42}", ids)
	}
}

package crawl

import (
	"testing"

	"github.com/openrdm/dvmeta/pkg/dataverse"
)

func strPtr(s string) *string { return &s }

func TestRekeyByDatasetID(t *testing.T) {
	byPID := map[string]*DatasetMetadata{
		"doi:10.5072/ABC": {Data: dataverse.DatasetVersion{DatasetID: 42, DatasetPersistentID: "doi:10.5072/ABC"}},
		"doi:10.5072/ODD": {Data: dataverse.DatasetVersion{DatasetPersistentID: "doi:10.5072/ODD"}},
	}

	byID := RekeyByDatasetID(byPID)
	if _, ok := byID["42"]; !ok {
		t.Error("dataset 42 not re-keyed to its decimal ID")
	}
	// Records without a numeric ID keep the persistent ID as key.
	if _, ok := byID["doi:10.5072/ODD"]; !ok {
		t.Error("record without numeric ID was dropped")
	}
	if len(byID) != 2 {
		t.Errorf("len = %d, want 2", len(byID))
	}
}

func TestAttachPathInfo(t *testing.T) {
	merged := map[string]*DatasetMetadata{
		"42": {Data: dataverse.DatasetVersion{DatasetID: 42}},
	}
	refs := map[int]DatasetRef{
		42: {PersistentID: "doi:10.5072/ABC", Path: strPtr("/C1")},
		77: {PersistentID: "doi:10.5072/GONE", Path: strPtr("/C2")},
	}

	leftover := AttachPathInfo(merged, refs)

	if merged["42"].PathInfo == nil || *merged["42"].PathInfo.Path != "/C1" {
		t.Errorf("path_info not attached: %+v", merged["42"].PathInfo)
	}
	if len(leftover) != 1 {
		t.Fatalf("leftover = %v, want exactly dataset 77", leftover)
	}
	if _, ok := leftover[77]; !ok {
		t.Errorf("dataset 77 should remain as deaccessioned/draft leftover")
	}
	// Input refs must not be consumed in place.
	if len(refs) != 2 {
		t.Errorf("input refs mutated: len = %d", len(refs))
	}
}

func TestAttachPermissionInfo(t *testing.T) {
	merged := map[string]*DatasetMetadata{
		"42": {Data: dataverse.DatasetVersion{DatasetID: 42}},
		"43": {Data: dataverse.DatasetVersion{DatasetID: 43}},
	}
	perms := map[int]dataverse.PermissionInfo{
		42: {Status: "OK", Data: []dataverse.RoleAssignment{{ID: 1, RoleAlias: "admin"}}},
	}

	AttachPermissionInfo(merged, perms)

	if got := merged["42"].PermissionInfo; got == nil || got.Status != "OK" || len(got.Data) != 1 {
		t.Errorf("dataset 42 permission = %+v, want fetched assignments", got)
	}
	na := merged["43"].PermissionInfo
	if na == nil || na.Status != "NA" {
		t.Fatalf("dataset 43 permission = %+v, want NA sentinel", na)
	}
	if na.Data == nil || len(na.Data) != 0 {
		t.Errorf("NA sentinel data = %v, want empty non-nil list", na.Data)
	}
}

func TestReconcileFailures(t *testing.T) {
	failed := FailureSet{
		"https://dv.example/api/datasets/:persistentId/versions/:latest-published?persistentId=doi%3A10.5072%2FGONE": 404,
		"https://dv.example/api/datasets/:persistentId/versions/:latest-published?persistentId=doi%3A10.5072%2FBAD":  500,
	}
	// Refs carry the raw PID; request URLs carry it percent-encoded.
	deaccessioned := map[int]DatasetRef{
		77: {PersistentID: "doi:10.5072/GONE"},
	}

	kept := ReconcileFailures(failed, deaccessioned)
	if len(kept) != 1 {
		t.Fatalf("kept = %v, want only the genuine failure", kept)
	}
	for url, status := range kept {
		if status != 500 {
			t.Errorf("kept %q with status %d, want the 500", url, status)
		}
	}
}

func TestReconcileFailuresNoDeaccessioned(t *testing.T) {
	failed := FailureSet{"https://dv.example/x": 0}
	kept := ReconcileFailures(failed, nil)
	if len(kept) != 1 {
		t.Errorf("kept = %v, want unchanged", kept)
	}
}

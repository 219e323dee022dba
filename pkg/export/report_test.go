package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/openrdm/dvmeta/pkg/crawl"
)

func TestWriteReport(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	if err := m.ExportJSON(map[string]string{"42": "doi:10.5072/ABC"}, TypePIDs); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	res := &crawl.Result{
		Flat:     map[int]crawl.FlatCollection{2: {ID: 2}},
		Refs:     map[int]crawl.DatasetRef{42: {}},
		Metadata: map[string]*crawl.DatasetMetadata{"42": sampleMetadata(t)},
	}

	path, err := WriteReport(m, ReportData{
		BaseURL:         "https://demo.dataverse.org",
		CollectionAlias: "demo",
		Version:         "latest-published",
		Authenticated:   true,
		Start:           start,
		End:             start.Add(90 * time.Second),
		Elapsed:         90 * time.Second,
		Result:          res,
	})
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := string(raw)

	for _, want := range []string{
		"# Crawl Run Log",
		m.RunID().String(),
		"https://demo.dataverse.org",
		"2026-03-01 10:00:00",
		"1m30s",
		"## Crawl Summary",
		"## Exported Files",
		"Hierarchical Information of Datasets",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteReportNoArtifacts(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	path, err := WriteReport(m, ReportData{Start: time.Now(), End: time.Now()})
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "No files were exported.") {
		t.Error("empty manifest note missing")
	}
}
